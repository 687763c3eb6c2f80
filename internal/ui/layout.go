package ui

import "github.com/charmbracelet/lipgloss"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which panes stack vertically.
	LayoutCompactWidth = 100
)

// vetListRows is how many pets the vet list shows at once.
const vetListRows = 12

// columns places left and right side by side, or stacks them on narrow
// terminals.
func (m Model) columns(left, right string) string {
	if m.width < LayoutCompactWidth {
		return lipgloss.JoinVertical(lipgloss.Left, left, "", right)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.width/2).Render(left),
		right,
	)
}
