package state

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

// Dashboard list limits.
const (
	DashboardPetLimit         = 6
	DashboardApplicationLimit = 5
	DashboardTaskLimit        = 5
)

// DashboardData is one consistent snapshot of everything the dashboard shows.
type DashboardData struct {
	Pets         []rescue.Pet
	Applications []rescue.Application
	Tasks        []rescue.Task
	Adoptions    []rescue.MonthlyCount
	Donations    rescue.DonationsSummary
	PetsByStatus []rescue.StatusCount
}

// DashboardResult carries a finished dashboard fetch back to its controller.
type DashboardResult struct {
	Gen  uint64
	Data DashboardData
	Err  error
}

// FetchDashboard issues all six dashboard requests concurrently and waits for
// every one of them. Any failure fails the whole batch.
func FetchDashboard(ctx context.Context, gw rescue.Gateway, gen uint64) DashboardResult {
	var data DashboardData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		data.Pets, err = gw.FetchPets(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Applications, err = gw.FetchApplications(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Tasks, err = gw.FetchTasks(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Adoptions, err = gw.FetchAdoptionsByMonth(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Donations, err = gw.FetchDonationsSummary(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.PetsByStatus, err = gw.FetchPetsByStatus(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return DashboardResult{Gen: gen, Err: err}
	}
	return DashboardResult{Gen: gen, Data: data}
}

type petFilterKey struct {
	rev    uint64
	search string
	status string
}

// Dashboard owns the dashboard screen's fetch lifecycle and projections.
type Dashboard struct {
	load Load
	data DashboardData
	rev  uint64

	search string
	status string

	filtered memo[petFilterKey, []rescue.Pet]
	stats    memo[uint64, Stats]
}

// NewDashboard returns an idle dashboard with no filters applied.
func NewDashboard() *Dashboard {
	return &Dashboard{status: StatusAll}
}

// Begin starts (or retries) the mount fetch.
func (d *Dashboard) Begin(parent context.Context) (uint64, context.Context) {
	return d.load.Begin(parent)
}

// Apply stores a fetch result. Stale results are dropped and reported false.
func (d *Dashboard) Apply(res DashboardResult) bool {
	if !d.load.Finish(res.Gen, res.Err) {
		return false
	}
	if res.Err != nil {
		return true
	}
	d.data = res.Data
	d.rev++
	return true
}

// Close abandons any in-flight fetch.
func (d *Dashboard) Close() {
	d.load.Stop()
	d.filtered.reset()
	d.stats.reset()
}

func (d *Dashboard) Phase() Phase { return d.load.Phase() }
func (d *Dashboard) Err() error   { return d.load.Err() }

// SetSearch updates the pet search text.
func (d *Dashboard) SetSearch(s string) { d.search = s }

// Search returns the pet search text.
func (d *Dashboard) Search() string { return d.search }

// SetStatusFilter selects a pet status, or StatusAll.
func (d *Dashboard) SetStatusFilter(status string) {
	if status == "" {
		status = StatusAll
	}
	d.status = status
}

// CycleStatusFilter advances the status filter and returns the new value.
func (d *Dashboard) CycleStatusFilter() string {
	d.status = NextStatusFilter(d.status)
	return d.status
}

// StatusFilter returns the active status filter.
func (d *Dashboard) StatusFilter() string { return d.status }

// FilteredPets returns the pets matching the current search and status filter.
func (d *Dashboard) FilteredPets() []rescue.Pet {
	key := petFilterKey{rev: d.rev, search: d.search, status: d.status}
	pets := d.filtered.get(key, func() []rescue.Pet {
		return FilterPets(d.data.Pets, d.search, d.status)
	})
	return slices.Clone(pets)
}

// Stats returns the headline counters for the current snapshot.
func (d *Dashboard) Stats() Stats {
	return d.stats.get(d.rev, func() Stats {
		return ComputeStats(d.data.Donations, d.data.PetsByStatus, d.data.Applications, d.data.Tasks)
	})
}

// Applications returns the fetched applications.
func (d *Dashboard) Applications() []rescue.Application { return slices.Clone(d.data.Applications) }

// Tasks returns the fetched tasks.
func (d *Dashboard) Tasks() []rescue.Task { return slices.Clone(d.data.Tasks) }

// Adoptions returns the monthly adoption series.
func (d *Dashboard) Adoptions() []rescue.MonthlyCount { return slices.Clone(d.data.Adoptions) }

// PetCount is the number of fetched pets before filtering.
func (d *Dashboard) PetCount() int { return len(d.data.Pets) }
