package state

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

func dashboardGateway() *fakeGateway {
	return &fakeGateway{
		pets: samplePets(),
		applications: []rescue.Application{
			{ID: 1, Status: rescue.ApplicationSubmitted},
			{ID: 2, Status: rescue.ApplicationUnderReview},
			{ID: 3, Status: rescue.ApplicationApproved},
		},
		tasks: []rescue.Task{
			{ID: 1, Priority: rescue.PriorityUrgent, Status: rescue.TaskInProgress},
			{ID: 2, Priority: rescue.PriorityUrgent, Status: rescue.TaskCompleted},
		},
		adoptions: []rescue.MonthlyCount{{Month: "2025-01", Count: 3}},
		donations: rescue.DonationsSummary{TotalDonations: json.RawMessage(`250`)},
		byStatus:  []rescue.StatusCount{{Status: rescue.PetAvailable, Count: 2}},
	}
}

func loadDashboard(t *testing.T, gw rescue.Gateway) *Dashboard {
	t.Helper()
	d := NewDashboard()
	gen, ctx := d.Begin(context.Background())
	require.True(t, d.Apply(FetchDashboard(ctx, gw, gen)))
	return d
}

func TestDashboardLoadsAllResources(t *testing.T) {
	d := loadDashboard(t, dashboardGateway())

	require.Equal(t, PhaseReady, d.Phase())
	assert.Len(t, d.FilteredPets(), 5)
	assert.Len(t, d.Applications(), 3)
	assert.Len(t, d.Tasks(), 2)
	assert.Len(t, d.Adoptions(), 1)
	assert.Equal(t, Stats{TotalDonations: 250, AvailablePets: 2, PendingApplications: 2, UrgentTasks: 1}, d.Stats())
}

func TestDashboardBatchIsAllOrNothing(t *testing.T) {
	gw := dashboardGateway()
	gw.failures = map[string]error{"donations": errBackend}
	d := NewDashboard()
	gen, ctx := d.Begin(context.Background())
	res := FetchDashboard(ctx, gw, gen)
	require.ErrorIs(t, res.Err, errBackend)

	require.True(t, d.Apply(res))
	assert.Equal(t, PhaseError, d.Phase())
	assert.Empty(t, d.FilteredPets(), "no partial data after a failed batch")
	assert.Zero(t, d.PetCount())

	gw.failures = nil
	gen, ctx = d.Begin(context.Background())
	require.True(t, d.Apply(FetchDashboard(ctx, gw, gen)))
	assert.Equal(t, PhaseReady, d.Phase())
	assert.Equal(t, 5, d.PetCount())
}

func TestDashboardDropsStaleResult(t *testing.T) {
	gw := dashboardGateway()
	d := NewDashboard()
	oldGen, oldCtx := d.Begin(context.Background())
	stale := FetchDashboard(oldCtx, gw, oldGen)
	newGen, ctx := d.Begin(context.Background())

	assert.False(t, d.Apply(stale))
	assert.Equal(t, PhaseLoading, d.Phase())
	assert.True(t, d.Apply(FetchDashboard(ctx, gw, newGen)))
}

func TestDashboardFilteredPetsFollowInputs(t *testing.T) {
	d := loadDashboard(t, dashboardGateway())

	d.SetSearch("dog")
	assert.Len(t, d.FilteredPets(), 2)

	assert.Equal(t, rescue.PetAvailable, d.CycleStatusFilter())
	got := d.FilteredPets()
	require.Len(t, got, 1)
	assert.Equal(t, "Biscuit", got[0].Name)

	d.SetSearch("")
	d.SetStatusFilter("")
	assert.Equal(t, StatusAll, d.StatusFilter())
	assert.Len(t, d.FilteredPets(), 5)
}

func TestDashboardProjectionIsACopy(t *testing.T) {
	d := loadDashboard(t, dashboardGateway())
	got := d.FilteredPets()
	got[0].Name = "mutated"
	assert.Equal(t, "Biscuit", d.FilteredPets()[0].Name)
}

func TestDashboardStatsFollowNewSnapshot(t *testing.T) {
	gw := dashboardGateway()
	d := loadDashboard(t, gw)
	require.Equal(t, 2, d.Stats().PendingApplications)

	gw.applications = gw.applications[:1]
	gen, ctx := d.Begin(context.Background())
	require.True(t, d.Apply(FetchDashboard(ctx, gw, gen)))
	assert.Equal(t, 1, d.Stats().PendingApplications)
}

func TestDashboardCloseDiscardsInFlight(t *testing.T) {
	gw := dashboardGateway()
	d := NewDashboard()
	gen, ctx := d.Begin(context.Background())
	d.Close()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, d.Apply(FetchDashboard(context.Background(), gw, gen)))
	assert.Equal(t, PhaseIdle, d.Phase())
}

// barrierGateway blocks every dashboard read until all six have started, so a
// sequential batch can never finish.
type barrierGateway struct {
	*fakeGateway
	arrived sync.WaitGroup
}

func newBarrierGateway() *barrierGateway {
	b := &barrierGateway{fakeGateway: dashboardGateway()}
	b.arrived.Add(6)
	return b
}

func (b *barrierGateway) wait(ctx context.Context) error {
	b.arrived.Done()
	done := make(chan struct{})
	go func() {
		b.arrived.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *barrierGateway) FetchPets(ctx context.Context) ([]rescue.Pet, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.fakeGateway.FetchPets(ctx)
}

func (b *barrierGateway) FetchApplications(ctx context.Context) ([]rescue.Application, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.fakeGateway.FetchApplications(ctx)
}

func (b *barrierGateway) FetchTasks(ctx context.Context) ([]rescue.Task, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.fakeGateway.FetchTasks(ctx)
}

func (b *barrierGateway) FetchAdoptionsByMonth(ctx context.Context) ([]rescue.MonthlyCount, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.fakeGateway.FetchAdoptionsByMonth(ctx)
}

func (b *barrierGateway) FetchDonationsSummary(ctx context.Context) (rescue.DonationsSummary, error) {
	if err := b.wait(ctx); err != nil {
		return rescue.DonationsSummary{}, err
	}
	return b.fakeGateway.FetchDonationsSummary(ctx)
}

func (b *barrierGateway) FetchPetsByStatus(ctx context.Context) ([]rescue.StatusCount, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.fakeGateway.FetchPetsByStatus(ctx)
}

func TestDashboardFetchesRunConcurrently(t *testing.T) {
	gw := newBarrierGateway()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res := FetchDashboard(ctx, gw, 1)
	require.NoError(t, res.Err, "a sequential batch would block on the first read until the deadline")
	assert.Len(t, res.Data.Pets, 5)
	assert.Len(t, res.Data.Applications, 3)
}
