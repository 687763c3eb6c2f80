package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rescueworks/rescuetui/internal/rescue"
	"github.com/rescueworks/rescuetui/internal/state"
)

type dashboardScreen struct {
	ctrl      *state.Dashboard
	search    textinput.Model
	searching bool
	cursor    int
}

func newDashboardScreen() *dashboardScreen {
	return &dashboardScreen{
		ctrl:   state.NewDashboard(),
		search: newSearchInput(),
	}
}

func newSearchInput() textinput.Model {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "name or species"
	in.CharLimit = 64
	return in
}

func (d *dashboardScreen) clamp() {
	d.cursor = clampCursor(d.cursor, len(d.ctrl.FilteredPets()))
}

func (d *dashboardScreen) handleSearchKey(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Escape):
		d.search.SetValue("")
		d.ctrl.SetSearch("")
		d.searching = false
		d.search.Blur()
		d.clamp()
		return nil
	case key.Matches(msg, keys.Confirm):
		d.searching = false
		d.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	d.search, cmd = d.search.Update(msg)
	d.ctrl.SetSearch(d.search.Value())
	d.cursor = 0
	return cmd
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	d := m.dash
	if d == nil || d.ctrl.Phase() != state.PhaseReady {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Search):
		d.searching = true
		return d.search.Focus()
	case key.Matches(msg, m.keys.CycleFilter):
		d.ctrl.CycleStatusFilter()
		d.cursor = 0
	default:
		d.cursor = moveCursor(msg, m.keys, d.cursor, len(d.ctrl.FilteredPets()))
	}
	return nil
}

func (m Model) renderDashboard() string {
	styles := m.theme.Styles()
	d := m.dash

	stats := d.ctrl.Stats()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.statCard("Donations", formatAmount(stats.TotalDonations), m.theme.Success),
		m.statCard("Available pets", fmt.Sprint(stats.AvailablePets), m.theme.Accent),
		m.statCard("Pending applications", fmt.Sprint(stats.PendingApplications), m.theme.Warning),
		m.statCard("Urgent tasks", fmt.Sprint(stats.UrgentTasks), m.theme.Danger),
	)

	var pets strings.Builder
	pets.WriteString(m.sectionTitle("Pets"))
	pets.WriteString("  ")
	filter := d.ctrl.StatusFilter()
	pets.WriteString(styles.MutedText.Render("status: "))
	if filter == state.StatusAll {
		pets.WriteString(styles.Text.Render("All"))
	} else {
		pets.WriteString(styles.StatusStyle(filter).Render(titleCase(filter)))
	}
	pets.WriteString("\n")
	if d.searching || d.search.Value() != "" {
		pets.WriteString(d.search.View())
		pets.WriteString("\n")
	}
	pets.WriteString(m.renderPetRows(d.ctrl.FilteredPets(), d.cursor, state.DashboardPetLimit, 0))

	side := lipgloss.JoinVertical(lipgloss.Left,
		m.renderApplications(limit(d.ctrl.Applications(), state.DashboardApplicationLimit)),
		"",
		m.renderTasks(limit(d.ctrl.Tasks(), state.DashboardTaskLimit)),
	)

	body := m.columns(pets.String(), side)

	return lipgloss.JoinVertical(lipgloss.Left,
		cards,
		"",
		body,
		"",
		m.renderAdoptions(d.ctrl.Adoptions()),
	)
}

func (m Model) statCard(label, value, color string) string {
	styles := m.theme.Styles()
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(0, 1).
		MarginRight(1).
		Width(22)
	return card.Render(
		styles.MutedText.Render(label) + "\n" +
			lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(value),
	)
}

func (m Model) sectionTitle(title string) string {
	return m.theme.Styles().AccentText.Bold(true).Render(title)
}

// renderPetRows renders a scrolling window of pets around cursor. selected is
// the pet id to mark, or zero.
func (m Model) renderPetRows(pets []rescue.Pet, cursor, size int, selected int64) string {
	styles := m.theme.Styles()
	if len(pets) == 0 {
		return styles.FaintText.Render("No pets match.")
	}
	start, end := window(cursor, len(pets), size)
	var b strings.Builder
	for i := start; i < end; i++ {
		pet := pets[i]
		marker := "  "
		if pet.ID == selected {
			marker = "● "
		}
		line := fmt.Sprintf("%s%-12s %-8s %-12s", marker,
			truncate(pet.Name, 12), truncate(pet.Species, 8), truncate(pet.BreedLabel(), 12))
		if i == cursor {
			line = styles.Selected.Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString(" ")
		b.WriteString(styles.StatusStyle(pet.Status).Render(titleCase(pet.Status)))
		b.WriteString("\n")
	}
	if hidden := len(pets) - (end - start); hidden > 0 {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d of %d shown", end-start, len(pets))))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderApplications(apps []rescue.Application) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(m.sectionTitle("Recent applications"))
	b.WriteString("\n")
	if len(apps) == 0 {
		b.WriteString(styles.FaintText.Render("No applications."))
		return b.String()
	}
	for _, app := range apps {
		b.WriteString(styles.Text.Render(fmt.Sprintf("%-18s %-8s ", truncate(app.Applicant(), 18), truncate(titleCase(app.Type), 8))))
		b.WriteString(styles.StatusStyle(app.Status).Render(titleCase(app.Status)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderTasks(tasks []rescue.Task) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(m.sectionTitle("Tasks"))
	b.WriteString("\n")
	if len(tasks) == 0 {
		b.WriteString(styles.FaintText.Render("No tasks."))
		return b.String()
	}
	for _, task := range tasks {
		due := task.DueDate
		if due == "" {
			due = "no due date"
		}
		b.WriteString(styles.StatusStyle(task.Priority).Render(titleCase(task.Priority)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(truncate(task.Title, 24)))
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(due))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderAdoptions(series []rescue.MonthlyCount) string {
	styles := m.theme.Styles()
	title := m.sectionTitle("Adoptions by month")
	if len(series) == 0 {
		return title + "\n" + styles.FaintText.Render("No adoptions recorded.")
	}
	counts := make([]int, len(series))
	for i, point := range series {
		counts[i] = point.Count
	}
	first, last := series[0].Month, series[len(series)-1].Month
	return title + "\n" +
		styles.SuccessText.Render(sparkline(counts)) + "  " +
		styles.FaintText.Render(first+" → "+last)
}
