package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top status bar: product, account and backend.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("rescuetui", styles.Logo)}

	claims := m.session.Claims()
	switch {
	case claims.Subject != "":
		parts = append(parts, bg.Render(claims.Subject, styles.Text))
	case m.prefs.LastUsername != "":
		parts = append(parts, bg.Render(m.prefs.LastUsername, styles.Text))
	}
	if !claims.ExpiresAt.IsZero() {
		left := time.Until(claims.ExpiresAt).Round(time.Minute)
		if left > 0 {
			parts = append(parts, bg.Render("session "+left.String(), styles.MutedText))
		} else {
			parts = append(parts, bg.Render("session expired", styles.WarningText))
		}
	}
	if m.apiURL != "" {
		parts = append(parts, bg.Render(truncate(m.apiURL, 40), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderTabs renders the view switcher.
func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := " " + string(rune('1'+i)) + " " + v.Title() + " "
		if v == m.view {
			tabs = append(tabs, styles.Selected.Bold(true).Render(label))
		} else {
			tabs = append(tabs, styles.MutedText.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
