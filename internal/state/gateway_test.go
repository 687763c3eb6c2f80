package state

import (
	"context"
	"errors"
	"sync"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

var errBackend = errors.New("backend unavailable")

// fakeGateway serves canned data and records write calls.
type fakeGateway struct {
	mu sync.Mutex

	pets         []rescue.Pet
	applications []rescue.Application
	tasks        []rescue.Task
	adoptions    []rescue.MonthlyCount
	donations    rescue.DonationsSummary
	byStatus     []rescue.StatusCount
	org          rescue.Organization
	portal       rescue.PortalSummary
	vetPets      []rescue.Pet
	medical      map[int64][]rescue.MedicalRecord

	token    string
	failures map[string]error
	saves    []rescue.Organization
	logins   int
}

func (f *fakeGateway) fail(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[call]
}

func (f *fakeGateway) Login(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	f.logins++
	f.mu.Unlock()
	if err := f.fail("login"); err != nil {
		return "", err
	}
	return f.token, nil
}

func (f *fakeGateway) FetchPets(context.Context) ([]rescue.Pet, error) {
	return f.pets, f.fail("pets")
}

func (f *fakeGateway) FetchApplications(context.Context) ([]rescue.Application, error) {
	return f.applications, f.fail("applications")
}

func (f *fakeGateway) FetchTasks(context.Context) ([]rescue.Task, error) {
	return f.tasks, f.fail("tasks")
}

func (f *fakeGateway) FetchAdoptionsByMonth(context.Context) ([]rescue.MonthlyCount, error) {
	return f.adoptions, f.fail("adoptions")
}

func (f *fakeGateway) FetchDonationsSummary(context.Context) (rescue.DonationsSummary, error) {
	return f.donations, f.fail("donations")
}

func (f *fakeGateway) FetchPetsByStatus(context.Context) ([]rescue.StatusCount, error) {
	return f.byStatus, f.fail("by_status")
}

func (f *fakeGateway) FetchSettings(context.Context) (rescue.Organization, error) {
	return f.org, f.fail("settings")
}

func (f *fakeGateway) SaveSettings(_ context.Context, org rescue.Organization) error {
	f.mu.Lock()
	f.saves = append(f.saves, org)
	f.mu.Unlock()
	return f.fail("save")
}

func (f *fakeGateway) FetchPortal(context.Context) (rescue.PortalSummary, error) {
	return f.portal, f.fail("portal")
}

func (f *fakeGateway) FetchVetPets(context.Context) ([]rescue.Pet, error) {
	return f.vetPets, f.fail("vet_pets")
}

func (f *fakeGateway) FetchMedicalRecords(_ context.Context, petID int64) ([]rescue.MedicalRecord, error) {
	return f.medical[petID], f.fail("medical")
}
