package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescueworks/rescuetui/internal/rescue"
	"github.com/rescueworks/rescuetui/internal/session"
)

func TestPortalLoad(t *testing.T) {
	gw := &fakeGateway{portal: rescue.PortalSummary{
		MyApplications: []rescue.Application{{ID: 1}},
		MyFosterPets:   []rescue.Pet{{ID: 2}, {ID: 3}},
	}}
	p := NewPortal()
	gen, ctx := p.Begin(context.Background())
	require.True(t, p.Apply(FetchPortal(ctx, gw, gen)))

	apps, fosters, tasks := p.Counts()
	assert.Equal(t, 1, apps)
	assert.Equal(t, 2, fosters)
	assert.Zero(t, tasks)
	assert.Len(t, p.FosterPets(), 2)
}

func TestPortalErrorThenRetry(t *testing.T) {
	gw := &fakeGateway{failures: map[string]error{"portal": errBackend}}
	p := NewPortal()
	gen, ctx := p.Begin(context.Background())
	require.True(t, p.Apply(FetchPortal(ctx, gw, gen)))
	require.Equal(t, PhaseError, p.Phase())

	gw.failures = nil
	gen, ctx = p.Begin(context.Background())
	require.True(t, p.Apply(FetchPortal(ctx, gw, gen)))
	assert.Equal(t, PhaseReady, p.Phase())
}

func loadSettings(t *testing.T, gw rescue.Gateway) *Settings {
	t.Helper()
	s := NewSettings()
	gen, ctx := s.Begin(context.Background())
	require.True(t, s.Apply(FetchSettings(ctx, gw, gen)))
	return s
}

func TestSettingsSaveSendsFullDraftOnce(t *testing.T) {
	gw := &fakeGateway{org: rescue.Organization{Name: "Old", LogoURL: "old.png", PrimaryContactEmail: "old@example.org"}}
	s := loadSettings(t, gw)

	require.NoError(t, s.SetField(FieldName, "X"))
	require.NoError(t, s.SetField(FieldLogoURL, "Y"))
	require.NoError(t, s.SetField(FieldContactEmail, "Z"))
	require.True(t, s.Dirty())

	gen, ctx, draft, err := s.BeginSave(context.Background())
	require.NoError(t, err)
	_, _, _, err = s.BeginSave(context.Background())
	require.ErrorIs(t, err, ErrSaveInFlight)

	flash, ok := s.ApplySave(SaveSettings(ctx, gw, gen, draft))
	require.True(t, ok)

	want := rescue.Organization{Name: "X", LogoURL: "Y", PrimaryContactEmail: "Z"}
	assert.Equal(t, []rescue.Organization{want}, gw.saves)
	assert.Equal(t, MessageSaved, flash.Text)
	assert.Equal(t, 3*time.Second, flash.TTL)
	assert.False(t, s.Dirty())

	assert.True(t, s.ExpireFlash(flash.Seq))
	assert.Empty(t, s.Flash().Text)
}

func TestSettingsFailedSaveKeepsMessageAndDraft(t *testing.T) {
	gw := &fakeGateway{
		org:      rescue.Organization{Name: "Old"},
		failures: map[string]error{"save": errBackend},
	}
	s := loadSettings(t, gw)
	require.NoError(t, s.SetField(FieldName, "New"))

	gen, ctx, draft, err := s.BeginSave(context.Background())
	require.NoError(t, err)
	flash, ok := s.ApplySave(SaveSettings(ctx, gw, gen, draft))
	require.True(t, ok)

	assert.Equal(t, MessageSaveFailed, flash.Text)
	assert.True(t, flash.Error)
	assert.Zero(t, flash.TTL)
	assert.Equal(t, "New", s.Field(FieldName), "draft stays editable")
	assert.True(t, s.Dirty())

	_, _, _, err = s.BeginSave(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.Flash().Text, "a new attempt clears the error")
}

func TestSettingsExpireIgnoresOlderTimer(t *testing.T) {
	gw := &fakeGateway{}
	s := loadSettings(t, gw)

	gen, ctx, draft, _ := s.BeginSave(context.Background())
	first, _ := s.ApplySave(SaveSettings(ctx, gw, gen, draft))
	gen, ctx, draft, _ = s.BeginSave(context.Background())
	second, _ := s.ApplySave(SaveSettings(ctx, gw, gen, draft))

	assert.False(t, s.ExpireFlash(first.Seq))
	assert.Equal(t, MessageSaved, s.Flash().Text)
	assert.True(t, s.ExpireFlash(second.Seq))
}

func TestSettingsRejectsSaveBeforeLoad(t *testing.T) {
	s := NewSettings()
	_, _, _, err := s.BeginSave(context.Background())
	assert.ErrorIs(t, err, ErrSaveInFlight)
	assert.Error(t, s.SetField("color", "red"))
}

func TestLoginSuccessSetsToken(t *testing.T) {
	store := &session.Store{}
	gw := &fakeGateway{token: "tok-123"}
	l := NewLogin(store)
	l.Username, l.Password = "vet@example.org", "secret"

	gen, ctx, err := l.BeginSubmit(context.Background())
	require.NoError(t, err)
	require.True(t, l.Submitting())
	require.True(t, l.Apply(Authenticate(ctx, gw, gen, l.Username, l.Password)))

	token, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok-123", token)
	assert.Empty(t, l.Password)
	assert.Empty(t, l.Message())
}

func TestLoginFailureShowsGenericMessage(t *testing.T) {
	for name, gw := range map[string]*fakeGateway{
		"rejected":    {failures: map[string]error{"login": &rescue.APIError{StatusCode: 401}}},
		"network":     {failures: map[string]error{"login": errBackend}},
		"empty token": {token: "  "},
	} {
		t.Run(name, func(t *testing.T) {
			store := &session.Store{}
			l := NewLogin(store)
			l.Username, l.Password = "vet@example.org", "wrong"

			gen, ctx, err := l.BeginSubmit(context.Background())
			require.NoError(t, err)
			assert.False(t, l.Apply(Authenticate(ctx, gw, gen, l.Username, l.Password)))

			assert.False(t, store.Active())
			assert.Equal(t, MessageInvalidCredentials, l.Message())
		})
	}
}

func TestLoginValidatesInput(t *testing.T) {
	l := NewLogin(&session.Store{})
	_, _, err := l.BeginSubmit(context.Background())
	assert.ErrorIs(t, err, ErrMissingFields)

	l.Username, l.Password = "a", "b"
	_, _, err = l.BeginSubmit(context.Background())
	require.NoError(t, err)
	_, _, err = l.BeginSubmit(context.Background())
	assert.ErrorIs(t, err, ErrLoginInFlight)
}
