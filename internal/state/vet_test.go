package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

func vetGateway() *fakeGateway {
	return &fakeGateway{
		vetPets: []rescue.Pet{
			{ID: 10, Name: "Biscuit", Species: "Dog"},
			{ID: 11, Name: "Mochi", Species: "Cat"},
		},
		medical: map[int64][]rescue.MedicalRecord{
			10: {{ID: 1, Description: "Rabies vaccine"}},
			11: {{ID: 2, Note: "Dental cleaning"}, {ID: 3}},
		},
	}
}

func loadVet(t *testing.T, gw rescue.Gateway) *Vet {
	t.Helper()
	v := NewVet()
	gen, ctx := v.Begin(context.Background())
	require.True(t, v.Apply(FetchVetPets(ctx, gw, gen)))
	return v
}

func TestVetSelectClearsRecordsBeforeFetch(t *testing.T) {
	gw := vetGateway()
	v := loadVet(t, gw)

	gen, ctx, ok := v.Select(context.Background(), 10)
	require.True(t, ok)
	require.True(t, v.ApplyMedical(FetchMedical(ctx, gw, gen, 10)))
	require.Len(t, v.Records(), 1)

	genB, ctxB, ok := v.Select(context.Background(), 11)
	require.True(t, ok)
	assert.Empty(t, v.Records(), "records must be empty until the new pet's fetch resolves")
	assert.Equal(t, PhaseLoading, v.MedicalPhase())
	pet, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "Mochi", pet.Name)

	require.True(t, v.ApplyMedical(FetchMedical(ctxB, gw, genB, 11)))
	assert.Len(t, v.Records(), 2)
}

func TestVetDropsRecordsForPreviousSelection(t *testing.T) {
	gw := vetGateway()
	v := loadVet(t, gw)

	genA, ctxA, _ := v.Select(context.Background(), 10)
	resA := FetchMedical(ctxA, gw, genA, 10)
	genB, ctxB, _ := v.Select(context.Background(), 11)

	assert.ErrorIs(t, ctxA.Err(), context.Canceled)
	assert.False(t, v.ApplyMedical(resA))
	assert.Empty(t, v.Records())

	assert.True(t, v.ApplyMedical(FetchMedical(ctxB, gw, genB, 11)))
	assert.Equal(t, int64(2), v.Records()[0].ID)
}

func TestVetSelectRejectsUnknownPet(t *testing.T) {
	v := loadVet(t, vetGateway())
	_, _, ok := v.Select(context.Background(), 99)
	assert.False(t, ok)
	_, ok = v.Selected()
	assert.False(t, ok)
}

func TestVetReloadDropsVanishedSelection(t *testing.T) {
	gw := vetGateway()
	v := loadVet(t, gw)
	gen, ctx, _ := v.Select(context.Background(), 11)
	require.True(t, v.ApplyMedical(FetchMedical(ctx, gw, gen, 11)))

	gw.vetPets = gw.vetPets[:1]
	listGen, listCtx := v.Begin(context.Background())
	require.True(t, v.Apply(FetchVetPets(listCtx, gw, listGen)))

	_, ok := v.Selected()
	assert.False(t, ok)
	assert.Empty(t, v.Records())
}

func TestVetMedicalFailure(t *testing.T) {
	gw := vetGateway()
	gw.failures = map[string]error{"medical": errBackend}
	v := loadVet(t, gw)

	gen, ctx, _ := v.Select(context.Background(), 10)
	require.True(t, v.ApplyMedical(FetchMedical(ctx, gw, gen, 10)))
	assert.Equal(t, PhaseError, v.MedicalPhase())
	assert.ErrorIs(t, v.MedicalErr(), errBackend)
	assert.Equal(t, PhaseReady, v.Phase(), "pet list is unaffected")
}

func TestVetSearchIsTextOnly(t *testing.T) {
	v := loadVet(t, vetGateway())
	v.SetSearch("CAT")
	got := v.FilteredPets()
	require.Len(t, got, 1)
	assert.Equal(t, int64(11), got[0].ID)
}

func TestVetRetryMedicalRefetchesSelectedPet(t *testing.T) {
	gw := vetGateway()
	gw.failures = map[string]error{"medical": errBackend}
	v := loadVet(t, gw)

	gen, ctx, _ := v.Select(context.Background(), 10)
	require.True(t, v.ApplyMedical(FetchMedical(ctx, gw, gen, 10)))
	require.Equal(t, PhaseError, v.MedicalPhase())

	gw.failures = nil
	petID, gen, ctx, ok := v.RetryMedical(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(10), petID)
	assert.Equal(t, PhaseLoading, v.MedicalPhase())
	require.True(t, v.ApplyMedical(FetchMedical(ctx, gw, gen, petID)))
	assert.Equal(t, "Rabies vaccine", v.Records()[0].Title())
}

func TestVetRetryMedicalWithoutSelection(t *testing.T) {
	v := loadVet(t, vetGateway())
	_, _, _, ok := v.RetryMedical(context.Background())
	assert.False(t, ok)
}

func TestVetVanishedSelectionResetsMedicalError(t *testing.T) {
	gw := vetGateway()
	gw.failures = map[string]error{"medical": errBackend}
	v := loadVet(t, gw)
	gen, ctx, _ := v.Select(context.Background(), 11)
	require.True(t, v.ApplyMedical(FetchMedical(ctx, gw, gen, 11)))
	require.Equal(t, PhaseError, v.MedicalPhase())

	gw.vetPets = gw.vetPets[:1]
	listGen, listCtx := v.Begin(context.Background())
	require.True(t, v.Apply(FetchVetPets(listCtx, gw, listGen)))

	assert.Equal(t, PhaseIdle, v.MedicalPhase())
	assert.NoError(t, v.MedicalErr())
}
