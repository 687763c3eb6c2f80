package state

import (
	"context"
	"slices"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

// VetPetsResult carries a finished /vet/pets fetch.
type VetPetsResult struct {
	Gen  uint64
	Pets []rescue.Pet
	Err  error
}

// MedicalResult carries a finished medical record fetch for one pet.
type MedicalResult struct {
	Gen     uint64
	PetID   int64
	Records []rescue.MedicalRecord
	Err     error
}

// FetchVetPets loads the pets visible to veterinary staff.
func FetchVetPets(ctx context.Context, gw rescue.Gateway, gen uint64) VetPetsResult {
	pets, err := gw.FetchVetPets(ctx)
	return VetPetsResult{Gen: gen, Pets: pets, Err: err}
}

// FetchMedical loads the medical records of petID.
func FetchMedical(ctx context.Context, gw rescue.Gateway, gen uint64, petID int64) MedicalResult {
	records, err := gw.FetchMedicalRecords(ctx, petID)
	return MedicalResult{Gen: gen, PetID: petID, Records: records, Err: err}
}

type vetFilterKey struct {
	rev    uint64
	search string
}

// Vet is the veterinary record viewer. The selection always names a pet in
// the last fetched list, or nothing.
type Vet struct {
	pets Load
	list []rescue.Pet
	rev  uint64

	search   string
	filtered memo[vetFilterKey, []rescue.Pet]

	selected int64
	medical  Load
	records  []rescue.MedicalRecord
}

func NewVet() *Vet { return &Vet{} }

// Begin starts (or retries) the pet list fetch.
func (v *Vet) Begin(parent context.Context) (uint64, context.Context) {
	return v.pets.Begin(parent)
}

// Apply stores a pet list result. A selection that is no longer present is
// dropped together with its records.
func (v *Vet) Apply(res VetPetsResult) bool {
	if !v.pets.Finish(res.Gen, res.Err) {
		return false
	}
	if res.Err != nil {
		return true
	}
	v.list = res.Pets
	v.rev++
	if v.selected != 0 && !v.contains(v.selected) {
		v.clearSelection()
	}
	return true
}

// Select makes petID the current pet. Records of the previous pet are cleared
// before the new generation is issued. ok is false when petID is not in the
// current list.
func (v *Vet) Select(parent context.Context, petID int64) (gen uint64, ctx context.Context, ok bool) {
	if !v.contains(petID) {
		return 0, nil, false
	}
	v.selected = petID
	v.records = nil
	gen, ctx = v.medical.Begin(parent)
	return gen, ctx, true
}

// RetryMedical fetches the records of the selected pet again. ok is false when
// nothing is selected.
func (v *Vet) RetryMedical(parent context.Context) (petID int64, gen uint64, ctx context.Context, ok bool) {
	petID = v.selected
	gen, ctx, ok = v.Select(parent, petID)
	return petID, gen, ctx, ok
}

// ApplyMedical stores a record result for the selected pet. Results for a
// superseded generation or a pet that is no longer selected are dropped.
func (v *Vet) ApplyMedical(res MedicalResult) bool {
	if res.PetID != v.selected {
		return false
	}
	if !v.medical.Finish(res.Gen, res.Err) {
		return false
	}
	if res.Err == nil {
		v.records = res.Records
	}
	return true
}

// Close abandons both in-flight fetches.
func (v *Vet) Close() {
	v.pets.Stop()
	v.medical.Stop()
}

func (v *Vet) Phase() Phase        { return v.pets.Phase() }
func (v *Vet) Err() error          { return v.pets.Err() }
func (v *Vet) MedicalPhase() Phase { return v.medical.Phase() }
func (v *Vet) MedicalErr() error   { return v.medical.Err() }

func (v *Vet) SetSearch(s string) { v.search = s }
func (v *Vet) Search() string     { return v.search }

// FilteredPets applies the text search to the pet list. The vet view has no
// status filter.
func (v *Vet) FilteredPets() []rescue.Pet {
	key := vetFilterKey{rev: v.rev, search: v.search}
	pets := v.filtered.get(key, func() []rescue.Pet {
		return FilterPets(v.list, v.search, StatusAll)
	})
	return slices.Clone(pets)
}

// Selected returns the selected pet, if any.
func (v *Vet) Selected() (rescue.Pet, bool) {
	if v.selected == 0 {
		return rescue.Pet{}, false
	}
	for _, pet := range v.list {
		if pet.ID == v.selected {
			return pet, true
		}
	}
	return rescue.Pet{}, false
}

// Records returns the medical records of the selected pet.
func (v *Vet) Records() []rescue.MedicalRecord { return slices.Clone(v.records) }

func (v *Vet) contains(id int64) bool {
	if id == 0 {
		return false
	}
	return slices.ContainsFunc(v.list, func(p rescue.Pet) bool { return p.ID == id })
}

func (v *Vet) clearSelection() {
	v.selected = 0
	v.records = nil
	v.medical.Reset()
}
