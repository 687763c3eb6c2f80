package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rescueworks/rescuetui/internal/state"
)

type vetScreen struct {
	ctrl      *state.Vet
	search    textinput.Model
	searching bool
	cursor    int
}

func newVetScreen() *vetScreen {
	return &vetScreen{ctrl: state.NewVet(), search: newSearchInput()}
}

func (v *vetScreen) clamp() {
	v.cursor = clampCursor(v.cursor, len(v.ctrl.FilteredPets()))
}

func (v *vetScreen) handleSearchKey(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Escape):
		v.search.SetValue("")
		v.ctrl.SetSearch("")
		v.searching = false
		v.search.Blur()
		v.clamp()
		return nil
	case key.Matches(msg, keys.Confirm):
		v.searching = false
		v.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.ctrl.SetSearch(v.search.Value())
	v.cursor = 0
	return cmd
}

func (m Model) handleVetKey(msg tea.KeyMsg) tea.Cmd {
	v := m.vet
	if v == nil || v.ctrl.Phase() != state.PhaseReady {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Search):
		v.searching = true
		return v.search.Focus()
	case key.Matches(msg, m.keys.Confirm):
		return m.selectPet()
	default:
		v.cursor = moveCursor(msg, m.keys, v.cursor, len(v.ctrl.FilteredPets()))
	}
	return nil
}

// selectPet selects the pet under the cursor and fetches its records.
func (m Model) selectPet() tea.Cmd {
	v := m.vet
	if v == nil {
		return nil
	}
	pets := v.ctrl.FilteredPets()
	if v.cursor < 0 || v.cursor >= len(pets) {
		return nil
	}
	petID := pets[v.cursor].ID
	gen, ctx, ok := v.ctrl.Select(m.ctx, petID)
	if !ok {
		return nil
	}
	return tea.Batch(fetchMedicalCmd(ctx, m.gw, gen, petID), m.spinner.Tick)
}

// retryRecords refetches the records of the selected pet, wherever the
// cursor is.
func (m Model) retryRecords() tea.Cmd {
	if m.vet == nil {
		return nil
	}
	petID, gen, ctx, ok := m.vet.ctrl.RetryMedical(m.ctx)
	if !ok {
		return nil
	}
	return tea.Batch(fetchMedicalCmd(ctx, m.gw, gen, petID), m.spinner.Tick)
}

func (m Model) renderVet() string {
	styles := m.theme.Styles()
	v := m.vet

	var list strings.Builder
	list.WriteString(m.sectionTitle("Pets"))
	list.WriteString("\n")
	if v.searching || v.search.Value() != "" {
		list.WriteString(v.search.View())
		list.WriteString("\n")
	}
	selectedID := int64(0)
	selected, hasSelection := v.ctrl.Selected()
	if hasSelection {
		selectedID = selected.ID
	}
	list.WriteString(m.renderPetRows(v.ctrl.FilteredPets(), v.cursor, vetListRows, selectedID))

	var records strings.Builder
	switch {
	case !hasSelection:
		records.WriteString(m.sectionTitle("Medical records"))
		records.WriteString("\n")
		records.WriteString(styles.FaintText.Render("Select a pet with enter."))
	default:
		records.WriteString(m.sectionTitle("Medical records: " + selected.Name))
		records.WriteString("\n")
		records.WriteString(m.renderRecords())
	}

	return m.columns(list.String(), records.String())
}

func (m Model) renderRecords() string {
	styles := m.theme.Styles()
	v := m.vet.ctrl
	switch v.MedicalPhase() {
	case state.PhaseLoading:
		return m.renderLoading("Loading records...")
	case state.PhaseError:
		return styles.DangerText.Render("Could not load records") + "\n" +
			styles.MutedText.Render(describeError(v.MedicalErr())) + "\n" +
			styles.Text.Render("Press r to retry.")
	}
	records := v.Records()
	if len(records) == 0 {
		return styles.FaintText.Render("No medical records.")
	}
	var b strings.Builder
	for _, rec := range records {
		when := "unknown date"
		if t := rec.ParsedCreatedAt(); !t.IsZero() {
			when = t.Format("Jan 2, 2006")
		}
		b.WriteString(styles.Text.Render(truncate(rec.Title(), 40)))
		b.WriteString("  ")
		b.WriteString(styles.FaintText.Render(when))
		if rec.Note != "" && rec.Description != "" {
			b.WriteString("\n  ")
			b.WriteString(styles.MutedText.Render(truncate(rec.Note, 60)))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d records", len(records))))
	return b.String()
}
