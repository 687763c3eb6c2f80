package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rescueworks/rescuetui/internal/state"
)

var settingsLabels = map[string]string{
	state.FieldName:         "Organization name",
	state.FieldLogoURL:      "Logo URL",
	state.FieldContactEmail: "Primary contact email",
}

type settingsScreen struct {
	ctrl    *state.Settings
	cursor  int
	input   textinput.Model
	editing bool
}

func newSettingsScreen() *settingsScreen {
	in := textinput.New()
	in.CharLimit = 256
	in.Prompt = "> "
	return &settingsScreen{ctrl: state.NewSettings(), input: in}
}

func (s *settingsScreen) field() string {
	return state.SettingsFields[s.cursor]
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	s := m.settings
	if s == nil || s.ctrl.Phase() != state.PhaseReady {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		s.editing = true
		s.input.SetValue(s.ctrl.Field(s.field()))
		s.input.CursorEnd()
		return s.input.Focus()
	case key.Matches(msg, m.keys.Save):
		return m.saveSettings()
	default:
		s.cursor = moveCursor(msg, m.keys, s.cursor, len(state.SettingsFields))
	}
	return nil
}

func (m Model) handleSettingsEditKey(msg tea.KeyMsg) tea.Cmd {
	s := m.settings
	switch {
	case key.Matches(msg, m.keys.Escape):
		s.stopEditing()
		return nil
	case key.Matches(msg, m.keys.Confirm):
		m.commitField()
		return nil
	case msg.String() == "ctrl+s":
		m.commitField()
		return m.saveSettings()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (m Model) commitField() {
	if err := m.settings.commit(); err != nil {
		m.log.Debug("settings edit rejected", "error", err)
	}
}

// commit writes the edited value into the draft and leaves edit mode.
func (s *settingsScreen) commit() error {
	defer s.stopEditing()
	return s.ctrl.SetField(s.field(), s.input.Value())
}

func (s *settingsScreen) stopEditing() {
	s.editing = false
	s.input.Blur()
}

// saveSettings sends the whole draft.
func (m Model) saveSettings() tea.Cmd {
	gen, ctx, draft, err := m.settings.ctrl.BeginSave(m.ctx)
	if err != nil {
		return nil
	}
	m.log.Info("saving settings", "organization", draft.Name)
	return tea.Batch(saveSettingsCmd(ctx, m.gw, gen, draft), m.spinner.Tick)
}

func (m Model) handleSaveResult(res state.SaveResult) (tea.Model, tea.Cmd) {
	if m.settings == nil {
		m.stale("settings save", res.Gen)
		return m, nil
	}
	flash, ok := m.settings.ctrl.ApplySave(res)
	if !ok {
		m.stale("settings save", res.Gen)
		return m, nil
	}
	if res.Err != nil {
		m.log.Warn("save settings failed", "error", res.Err)
	}
	if flash.TTL > 0 {
		return m, expireFlashCmd(flash.TTL, flash.Seq)
	}
	return m, nil
}

func (m Model) renderSettings() string {
	styles := m.theme.Styles()
	s := m.settings

	var b strings.Builder
	b.WriteString(m.sectionTitle("Organization"))
	if s.ctrl.Dirty() {
		b.WriteString("  ")
		b.WriteString(styles.WarningText.Render("unsaved changes"))
	}
	b.WriteString("\n\n")

	for i, field := range state.SettingsFields {
		label := styles.MutedText
		marker := "  "
		if i == s.cursor {
			label = styles.AccentText
			marker = "› "
		}
		b.WriteString(label.Render(marker + settingsLabels[field]))
		b.WriteString("\n  ")
		if s.editing && i == s.cursor {
			b.WriteString(s.input.View())
		} else if v := s.ctrl.Field(field); v != "" {
			b.WriteString(styles.Text.Render(v))
		} else {
			b.WriteString(styles.FaintText.Render("(empty)"))
		}
		b.WriteString("\n\n")
	}

	flash := s.ctrl.Flash()
	switch {
	case s.ctrl.Saving():
		b.WriteString(m.renderLoading("Saving..."))
	case flash.Text != "" && flash.Error:
		b.WriteString(styles.DangerText.Render(flash.Text))
	case flash.Text != "":
		b.WriteString(styles.SuccessText.Render(flash.Text))
	}
	return b.String()
}
