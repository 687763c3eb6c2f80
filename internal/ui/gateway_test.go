package ui

import (
	"context"
	"errors"
	"sync"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

var errBackend = errors.New("backend unavailable")

type fakeGateway struct {
	mu       sync.Mutex
	token    string
	failures map[string]error
	saves    []rescue.Organization

	pets    []rescue.Pet
	org     rescue.Organization
	medical map[int64][]rescue.MedicalRecord
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		token: "tok-1",
		pets: []rescue.Pet{
			{ID: 1, Name: "Biscuit", Species: "Dog", Status: rescue.PetAvailable},
			{ID: 2, Name: "Mochi", Species: "Cat", Status: rescue.PetInFoster},
			{ID: 3, Name: "Tom", Species: "Cat", Status: rescue.PetAdopted},
		},
		org: rescue.Organization{Name: "Happy Tails", LogoURL: "logo.png", PrimaryContactEmail: "hi@tails.org"},
		medical: map[int64][]rescue.MedicalRecord{
			1: {{ID: 10, Description: "Rabies vaccine", CreatedAt: "2025-03-01T10:00:00"}},
			2: {{ID: 20, Note: "Dental cleaning"}, {ID: 21, Description: "Spay"}},
		},
	}
}

func (f *fakeGateway) setFailure(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures == nil {
		f.failures = map[string]error{}
	}
	if err == nil {
		delete(f.failures, call)
		return
	}
	f.failures[call] = err
}

func (f *fakeGateway) fail(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[call]
}

func (f *fakeGateway) Login(context.Context, string, string) (string, error) {
	if err := f.fail("login"); err != nil {
		return "", err
	}
	return f.token, nil
}

func (f *fakeGateway) FetchPets(context.Context) ([]rescue.Pet, error) {
	return f.pets, f.fail("pets")
}

func (f *fakeGateway) FetchApplications(context.Context) ([]rescue.Application, error) {
	return []rescue.Application{{ID: 1, Type: "adoption", Status: rescue.ApplicationSubmitted}}, nil
}

func (f *fakeGateway) FetchTasks(context.Context) ([]rescue.Task, error) {
	return []rescue.Task{{ID: 1, Title: "Vet visit", Priority: rescue.PriorityUrgent, Status: rescue.TaskPending}}, nil
}

func (f *fakeGateway) FetchAdoptionsByMonth(context.Context) ([]rescue.MonthlyCount, error) {
	return []rescue.MonthlyCount{{Month: "2025-01", Count: 2}, {Month: "2025-02", Count: 5}}, nil
}

func (f *fakeGateway) FetchDonationsSummary(context.Context) (rescue.DonationsSummary, error) {
	return rescue.DonationsSummary{TotalDonations: []byte(`1250.5`)}, nil
}

func (f *fakeGateway) FetchPetsByStatus(context.Context) ([]rescue.StatusCount, error) {
	return []rescue.StatusCount{{Status: rescue.PetAvailable, Count: 1}}, nil
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
	return rescue.PortalSummary{MyFosterPets: f.pets[1:2]}, f.fail("portal")
}

func (f *fakeGateway) FetchVetPets(context.Context) ([]rescue.Pet, error) {
	return f.pets, f.fail("vet_pets")
}

func (f *fakeGateway) FetchMedicalRecords(_ context.Context, petID int64) ([]rescue.MedicalRecord, error) {
	return f.medical[petID], f.fail("medical")
}
