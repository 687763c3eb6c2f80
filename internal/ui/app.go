package ui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rescueworks/rescuetui/internal/logging"
	"github.com/rescueworks/rescuetui/internal/prefs"
	"github.com/rescueworks/rescuetui/internal/rescue"
	"github.com/rescueworks/rescuetui/internal/session"
	"github.com/rescueworks/rescuetui/internal/state"
)

// View is one of the authenticated screens.
type View int

const (
	ViewDashboard View = iota
	ViewPortal
	ViewVet
	ViewSettings
)

var viewOrder = []View{ViewDashboard, ViewPortal, ViewVet, ViewSettings}

func (v View) String() string {
	switch v {
	case ViewPortal:
		return "my"
	case ViewVet:
		return "vet"
	case ViewSettings:
		return "settings"
	default:
		return "dashboard"
	}
}

// Title is the tab label.
func (v View) Title() string {
	switch v {
	case ViewPortal:
		return "My Portal"
	case ViewVet:
		return "Vet Records"
	case ViewSettings:
		return "Settings"
	default:
		return "Dashboard"
	}
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Gateway   rescue.Gateway
	Session   *session.Store
	Logger    *slog.Logger
	APIURL    string
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the navigation shell. It holds the session and the active view;
// exactly one screen is alive at a time.
type Model struct {
	// Configuration
	ctx       context.Context
	gw        rescue.Gateway
	session   *session.Store
	log       *slog.Logger
	apiURL    string
	prefs     prefs.Prefs
	prefsPath string

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	width    int
	height   int
	showHelp bool

	// Screens; nil unless active
	view     View
	login    *loginScreen
	dash     *dashboardScreen
	portal   *portalScreen
	vet      *vetScreen
	settings *settingsScreen
}

// New creates the shell. Without a session token it starts on the login form.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Session
	if store == nil {
		store = &session.Store{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		gw:        opts.Gateway,
		session:   store,
		log:       logger,
		apiURL:    opts.APIURL,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		theme:     GetTheme(opts.Prefs.Theme),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		width:     100,
		height:    32,
	}
	if store.Active() {
		m.open(ViewDashboard)
	} else {
		m.login = newLoginScreen(store, opts.Prefs.LastUsername)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.login != nil {
		return textinput.Blink
	}
	return m.load()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginMsg:
		return m.handleLoginResult(state.LoginResult(msg))

	case dashboardMsg:
		if m.dash == nil || !m.dash.ctrl.Apply(state.DashboardResult(msg)) {
			m.stale("dashboard", msg.Gen)
			return m, nil
		}
		m.logLoad("dashboard", msg.Err)
		m.dash.clamp()
		return m, nil

	case portalMsg:
		if m.portal == nil || !m.portal.ctrl.Apply(state.PortalResult(msg)) {
			m.stale("portal", msg.Gen)
			return m, nil
		}
		m.logLoad("portal", msg.Err)
		return m, nil

	case vetPetsMsg:
		if m.vet == nil || !m.vet.ctrl.Apply(state.VetPetsResult(msg)) {
			m.stale("vet pets", msg.Gen)
			return m, nil
		}
		m.logLoad("vet pets", msg.Err)
		m.vet.clamp()
		return m, nil

	case medicalMsg:
		if m.vet == nil || !m.vet.ctrl.ApplyMedical(state.MedicalResult(msg)) {
			m.stale("medical records", msg.Gen)
			return m, nil
		}
		m.logLoad("medical records", msg.Err, "pet_id", msg.PetID)
		return m, nil

	case settingsMsg:
		if m.settings == nil || !m.settings.ctrl.Apply(state.SettingsResult(msg)) {
			m.stale("settings", msg.Gen)
			return m, nil
		}
		m.logLoad("settings", msg.Err)
		return m, nil

	case settingsSavedMsg:
		return m.handleSaveResult(state.SaveResult(msg))

	case flashExpiredMsg:
		if m.settings != nil {
			m.settings.ctrl.ExpireFlash(msg.seq)
		}
		return m, nil
	}

	// Cursor blinks and other input housekeeping.
	return m, m.updateActiveInput(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}
	if m.login != nil {
		return m.renderLogin()
	}
	return m.renderMain()
}

// handleKey processes keyboard input: quit first, then overlays, then input
// fields, then global keys, then the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.login != nil {
		return m.handleLoginKey(msg)
	}

	if m.inputActive() {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.Retry):
		return m, m.retry()
	case key.Matches(msg, m.keys.Tab):
		return m, m.switchTo(m.neighbor(1))
	case key.Matches(msg, m.keys.ShiftTab):
		return m, m.switchTo(m.neighbor(-1))
	case key.Matches(msg, m.keys.ViewDashboard):
		return m, m.switchTo(ViewDashboard)
	case key.Matches(msg, m.keys.ViewPortal):
		return m, m.switchTo(ViewPortal)
	case key.Matches(msg, m.keys.ViewVet):
		return m, m.switchTo(ViewVet)
	case key.Matches(msg, m.keys.ViewSettings):
		return m, m.switchTo(ViewSettings)
	}

	switch m.view {
	case ViewDashboard:
		return m, m.handleDashboardKey(msg)
	case ViewVet:
		return m, m.handleVetKey(msg)
	case ViewSettings:
		return m, m.handleSettingsKey(msg)
	}
	return m, nil
}

// inputActive reports whether a text field currently owns the keyboard.
func (m Model) inputActive() bool {
	switch {
	case m.dash != nil && m.dash.searching:
		return true
	case m.vet != nil && m.vet.searching:
		return true
	case m.settings != nil && m.settings.editing:
		return true
	}
	return false
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.dash != nil && m.dash.searching:
		return m, m.dash.handleSearchKey(msg, m.keys)
	case m.vet != nil && m.vet.searching:
		return m, m.vet.handleSearchKey(msg, m.keys)
	case m.settings != nil && m.settings.editing:
		return m, m.handleSettingsEditKey(msg)
	}
	return m, nil
}

func (m Model) updateActiveInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.login != nil:
		cmd = m.login.updateFocused(msg)
	case m.dash != nil && m.dash.searching:
		m.dash.search, cmd = m.dash.search.Update(msg)
	case m.vet != nil && m.vet.searching:
		m.vet.search, cmd = m.vet.search.Update(msg)
	case m.settings != nil && m.settings.editing:
		m.settings.input, cmd = m.settings.input.Update(msg)
	}
	return cmd
}

// open builds a fresh screen for v. Nothing survives from an earlier visit.
func (m *Model) open(v View) {
	m.view = v
	switch v {
	case ViewDashboard:
		m.dash = newDashboardScreen()
	case ViewPortal:
		m.portal = &portalScreen{ctrl: state.NewPortal()}
	case ViewVet:
		m.vet = newVetScreen()
	case ViewSettings:
		m.settings = newSettingsScreen()
	}
}

// closeScreen abandons the active screen and any fetch it has in flight.
func (m *Model) closeScreen() {
	if m.dash != nil {
		m.dash.ctrl.Close()
		m.dash = nil
	}
	if m.portal != nil {
		m.portal.ctrl.Close()
		m.portal = nil
	}
	if m.vet != nil {
		m.vet.ctrl.Close()
		m.vet = nil
	}
	if m.settings != nil {
		m.settings.ctrl.Close()
		m.settings = nil
	}
}

// load issues the mount fetch of the active screen.
func (m Model) load() tea.Cmd {
	var fetch tea.Cmd
	switch m.view {
	case ViewDashboard:
		if m.dash == nil {
			return nil
		}
		gen, ctx := m.dash.ctrl.Begin(m.ctx)
		fetch = fetchDashboardCmd(ctx, m.gw, gen)
	case ViewPortal:
		if m.portal == nil {
			return nil
		}
		gen, ctx := m.portal.ctrl.Begin(m.ctx)
		fetch = fetchPortalCmd(ctx, m.gw, gen)
	case ViewVet:
		if m.vet == nil {
			return nil
		}
		gen, ctx := m.vet.ctrl.Begin(m.ctx)
		fetch = fetchVetPetsCmd(ctx, m.gw, gen)
	case ViewSettings:
		if m.settings == nil {
			return nil
		}
		gen, ctx := m.settings.ctrl.Begin(m.ctx)
		fetch = fetchSettingsCmd(ctx, m.gw, gen)
	}
	m.log.Debug("screen mount", "view", m.view.String())
	return tea.Batch(fetch, m.spinner.Tick)
}

// switchTo replaces the active screen with a freshly mounted v.
func (m *Model) switchTo(v View) tea.Cmd {
	if v == m.view {
		return nil
	}
	m.closeScreen()
	m.open(v)
	return m.load()
}

func (m Model) neighbor(step int) View {
	for i, v := range viewOrder {
		if v == m.view {
			n := (i + step + len(viewOrder)) % len(viewOrder)
			return viewOrder[n]
		}
	}
	return ViewDashboard
}

// retry restarts whatever failed on the active screen.
func (m *Model) retry() tea.Cmd {
	if m.phase() == state.PhaseError {
		return m.load()
	}
	if m.vet != nil && m.vet.ctrl.MedicalPhase() == state.PhaseError {
		return m.retryRecords()
	}
	return nil
}

// phase returns the load phase of the active screen.
func (m Model) phase() state.Phase {
	switch {
	case m.view == ViewDashboard && m.dash != nil:
		return m.dash.ctrl.Phase()
	case m.view == ViewPortal && m.portal != nil:
		return m.portal.ctrl.Phase()
	case m.view == ViewVet && m.vet != nil:
		return m.vet.ctrl.Phase()
	case m.view == ViewSettings && m.settings != nil:
		return m.settings.ctrl.Phase()
	}
	return state.PhaseIdle
}

// busy reports whether anything visible is waiting on the network.
func (m Model) busy() bool {
	if m.login != nil {
		return m.login.ctrl.Submitting()
	}
	if m.phase() == state.PhaseLoading {
		return true
	}
	if m.vet != nil && m.vet.ctrl.MedicalPhase() == state.PhaseLoading {
		return true
	}
	return m.settings != nil && m.settings.ctrl.Saving()
}

func (m *Model) logout() tea.Cmd {
	m.closeScreen()
	m.session.Clear()
	m.log.Info("signed out")
	m.login = newLoginScreen(m.session, m.prefs.LastUsername)
	m.view = ViewDashboard
	return textinput.Blink
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save prefs failed", "error", err)
	}
}

func (m Model) stale(what string, gen uint64) {
	m.log.Debug("discarded stale result", "resource", what, "gen", gen)
}

func (m Model) logLoad(what string, err error, args ...any) {
	if err == nil {
		return
	}
	m.log.Warn("fetch failed", append([]any{"resource", what, "error", err}, args...)...)
}

// renderMain renders the authenticated layout.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderContent renders the active screen or its loading/error state.
func (m Model) renderContent() string {
	switch m.phase() {
	case state.PhaseIdle, state.PhaseLoading:
		return m.renderLoading("Loading " + strings.ToLower(m.view.Title()) + "...")
	case state.PhaseError:
		return m.renderError()
	}

	switch m.view {
	case ViewDashboard:
		return m.renderDashboard()
	case ViewPortal:
		return m.renderPortal()
	case ViewVet:
		return m.renderVet()
	case ViewSettings:
		return m.renderSettings()
	}
	return ""
}

func (m Model) renderLoading(label string) string {
	styles := m.theme.Styles()
	return styles.AccentText.Render(m.spinner.View()) + " " + styles.MutedText.Render(label)
}

func (m Model) renderError() string {
	styles := m.theme.Styles()
	var err error
	switch m.view {
	case ViewDashboard:
		err = m.dash.ctrl.Err()
	case ViewPortal:
		err = m.portal.ctrl.Err()
	case ViewVet:
		err = m.vet.ctrl.Err()
	case ViewSettings:
		err = m.settings.ctrl.Err()
	}
	lines := []string{
		styles.DangerText.Render("Could not load " + strings.ToLower(m.view.Title())),
		styles.MutedText.Render(describeError(err)),
		"",
		styles.Text.Render("Press ") + styles.WarningText.Render("r") + styles.Text.Render(" to retry."),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderFooter() string {
	return m.help.ShortHelpView(m.keys.viewHelp(m.view))
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if err != nil && opts.Context.Err() != nil {
		// Cancelled by signal; not a failure.
		return nil
	}
	return err
}
