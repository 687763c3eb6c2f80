package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rescueworks/rescuetui/internal/state"
)

type portalScreen struct {
	ctrl *state.Portal
}

func (m Model) renderPortal() string {
	styles := m.theme.Styles()
	p := m.portal.ctrl

	apps, fosters, tasks := p.Counts()
	summary := styles.MutedText.Render(fmt.Sprintf("%d applications • %d foster pets • %d tasks", apps, fosters, tasks))

	fosterPets := p.FosterPets()
	var petsBlock string
	if len(fosterPets) == 0 {
		petsBlock = m.sectionTitle("My foster pets") + "\n" + styles.FaintText.Render("You are not fostering any pets.")
	} else {
		petsBlock = m.sectionTitle("My foster pets") + "\n" + m.renderPetRows(fosterPets, -1, len(fosterPets), 0)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		summary,
		"",
		m.renderApplications(p.Applications()),
		"",
		petsBlock,
		"",
		m.renderTasks(p.Tasks()),
	)
}
