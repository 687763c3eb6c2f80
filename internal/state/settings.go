package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

// FlashTTL is how long a successful save confirmation stays visible.
const FlashTTL = 3 * time.Second

const (
	MessageSaved      = "Settings saved successfully."
	MessageSaveFailed = "Failed to save settings."
)

// Editable organization fields.
const (
	FieldName         = "name"
	FieldLogoURL      = "logo_url"
	FieldContactEmail = "primary_contact_email"
)

// SettingsFields lists the editable fields in form order.
var SettingsFields = []string{FieldName, FieldLogoURL, FieldContactEmail}

// ErrSaveInFlight is returned when a save is requested while one is running
// or the settings have not loaded yet.
var ErrSaveInFlight = errors.New("settings not ready to save")

// Flash is a transient status message. A zero TTL means it stays until
// replaced.
type Flash struct {
	Text  string
	Error bool
	TTL   time.Duration
	Seq   uint64
}

// SettingsResult carries a finished /settings read.
type SettingsResult struct {
	Gen uint64
	Org rescue.Organization
	Err error
}

// SaveResult carries a finished /settings write.
type SaveResult struct {
	Gen  uint64
	Sent rescue.Organization
	Err  error
}

// FetchSettings loads the organization settings.
func FetchSettings(ctx context.Context, gw rescue.Gateway, gen uint64) SettingsResult {
	org, err := gw.FetchSettings(ctx)
	return SettingsResult{Gen: gen, Org: org, Err: err}
}

// SaveSettings writes draft back in full.
func SaveSettings(ctx context.Context, gw rescue.Gateway, gen uint64, draft rescue.Organization) SaveResult {
	err := gw.SaveSettings(ctx, draft)
	return SaveResult{Gen: gen, Sent: draft, Err: err}
}

// Settings owns the organization settings form.
type Settings struct {
	load  Load
	save  Load
	saved rescue.Organization
	draft rescue.Organization

	flash    Flash
	flashSeq uint64
}

func NewSettings() *Settings { return &Settings{} }

func (s *Settings) Begin(parent context.Context) (uint64, context.Context) {
	return s.load.Begin(parent)
}

// Apply stores a fetched organization as both the saved copy and the draft.
func (s *Settings) Apply(res SettingsResult) bool {
	if !s.load.Finish(res.Gen, res.Err) {
		return false
	}
	if res.Err == nil {
		s.saved = res.Org
		s.draft = res.Org
	}
	return true
}

func (s *Settings) Close() {
	s.load.Stop()
	s.save.Stop()
}

func (s *Settings) Phase() Phase { return s.load.Phase() }
func (s *Settings) Err() error   { return s.load.Err() }

// Saving reports whether a write is in flight.
func (s *Settings) Saving() bool { return s.save.Phase() == PhaseLoading }

// Draft returns the locally edited organization.
func (s *Settings) Draft() rescue.Organization { return s.draft }

// Saved returns the last organization known to be on the server.
func (s *Settings) Saved() rescue.Organization { return s.saved }

// Dirty reports whether the draft differs from the saved copy.
func (s *Settings) Dirty() bool { return s.draft != s.saved }

// Field returns the draft value of field.
func (s *Settings) Field(field string) string {
	switch field {
	case FieldName:
		return s.draft.Name
	case FieldLogoURL:
		return s.draft.LogoURL
	case FieldContactEmail:
		return s.draft.PrimaryContactEmail
	}
	return ""
}

// SetField edits one draft field.
func (s *Settings) SetField(field, value string) error {
	switch field {
	case FieldName:
		s.draft.Name = value
	case FieldLogoURL:
		s.draft.LogoURL = value
	case FieldContactEmail:
		s.draft.PrimaryContactEmail = value
	default:
		return fmt.Errorf("unknown settings field %q", field)
	}
	return nil
}

// BeginSave starts a write of the whole draft. It clears the current flash.
func (s *Settings) BeginSave(parent context.Context) (uint64, context.Context, rescue.Organization, error) {
	if s.load.Phase() != PhaseReady || s.Saving() {
		return 0, nil, rescue.Organization{}, ErrSaveInFlight
	}
	s.flash = Flash{}
	gen, ctx := s.save.Begin(parent)
	return gen, ctx, s.draft, nil
}

// ApplySave settles a write and returns the flash to show. ok is false for a
// stale result.
func (s *Settings) ApplySave(res SaveResult) (Flash, bool) {
	if !s.save.Finish(res.Gen, res.Err) {
		return Flash{}, false
	}
	s.flashSeq++
	if res.Err != nil {
		s.flash = Flash{Text: MessageSaveFailed, Error: true, Seq: s.flashSeq}
		return s.flash, true
	}
	s.saved = res.Sent
	s.flash = Flash{Text: MessageSaved, TTL: FlashTTL, Seq: s.flashSeq}
	return s.flash, true
}

// Flash returns the current status message.
func (s *Settings) Flash() Flash { return s.flash }

// ExpireFlash clears the flash armed with seq, if it is still showing.
func (s *Settings) ExpireFlash(seq uint64) bool {
	if s.flash.Text == "" || s.flash.Seq != seq {
		return false
	}
	s.flash = Flash{}
	return true
}
