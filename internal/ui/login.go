package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rescueworks/rescuetui/internal/session"
	"github.com/rescueworks/rescuetui/internal/state"
)

const (
	fieldUsername = iota
	fieldPassword
)

type loginScreen struct {
	ctrl   *state.Login
	inputs []textinput.Model
	focus  int
	hint   string
}

func newLoginScreen(store *session.Store, lastUsername string) *loginScreen {
	user := textinput.New()
	user.Placeholder = "you@rescue.org"
	user.CharLimit = 254
	user.SetValue(lastUsername)

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	l := &loginScreen{
		ctrl:   state.NewLogin(store),
		inputs: []textinput.Model{user, pass},
	}
	if strings.TrimSpace(lastUsername) != "" {
		l.setFocus(fieldPassword)
	} else {
		l.setFocus(fieldUsername)
	}
	return l
}

func (l *loginScreen) setFocus(i int) {
	l.focus = i
	for j := range l.inputs {
		if j == i {
			l.inputs[j].Focus()
		} else {
			l.inputs[j].Blur()
		}
	}
}

func (l *loginScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return cmd
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.login
	if l.ctrl.Submitting() {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down", "shift+tab", "up":
		l.setFocus((l.focus + 1) % len(l.inputs))
		return m, nil
	case "enter":
		if l.focus == fieldUsername {
			l.setFocus(fieldPassword)
			return m, nil
		}
		return m, m.submitLogin()
	case "esc":
		l.hint = ""
		return m, nil
	}
	l.hint = ""
	return m, l.updateFocused(msg)
}

func (m Model) submitLogin() tea.Cmd {
	l := m.login
	l.ctrl.Username = strings.TrimSpace(l.inputs[fieldUsername].Value())
	l.ctrl.Password = l.inputs[fieldPassword].Value()

	gen, ctx, err := l.ctrl.BeginSubmit(m.ctx)
	if err != nil {
		if errors.Is(err, state.ErrMissingFields) {
			l.hint = "Enter your email and password."
		}
		return nil
	}
	l.hint = ""
	return tea.Batch(loginCmd(ctx, m.gw, gen, l.ctrl.Username, l.ctrl.Password), m.spinner.Tick)
}

func (m Model) handleLoginResult(res state.LoginResult) (tea.Model, tea.Cmd) {
	if m.login == nil {
		m.stale("login", res.Gen)
		return m, nil
	}
	l := m.login
	username := l.ctrl.Username
	if !l.ctrl.Apply(res) {
		if res.Err != nil || l.ctrl.Message() != "" {
			m.log.Info("login failed", "user", username, "error", res.Err)
			l.inputs[fieldPassword].SetValue("")
			l.setFocus(fieldPassword)
		}
		return m, nil
	}

	m.log.Info("signed in", "user", username)
	m.prefs.LastUsername = username
	m.savePrefs()

	m.login = nil
	m.open(ViewDashboard)
	return m, m.load()
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	l := m.login

	var b strings.Builder
	b.WriteString(styles.Logo.Render("RescueWorks"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Sign in to continue"))
	if m.apiURL != "" {
		b.WriteString(styles.FaintText.Render("  " + m.apiURL))
	}
	b.WriteString("\n\n")

	labels := []string{"Email", "Password"}
	for i, input := range l.inputs {
		label := styles.MutedText
		if i == l.focus {
			label = styles.AccentText
		}
		b.WriteString(label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	switch {
	case l.ctrl.Submitting():
		b.WriteString(m.renderLoading("Signing in..."))
	case l.ctrl.Message() != "":
		b.WriteString(styles.DangerText.Render(l.ctrl.Message()))
	case l.hint != "":
		b.WriteString(styles.WarningText.Render(l.hint))
	default:
		b.WriteString(styles.FaintText.Render("enter sign in • tab switch field • ctrl+c quit"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 3).
		Width(56)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}
