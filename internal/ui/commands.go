package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rescueworks/rescuetui/internal/rescue"
	"github.com/rescueworks/rescuetui/internal/state"
)

// Messages

type loginMsg state.LoginResult

type dashboardMsg state.DashboardResult

type portalMsg state.PortalResult

type vetPetsMsg state.VetPetsResult

type medicalMsg state.MedicalResult

type settingsMsg state.SettingsResult

type settingsSavedMsg state.SaveResult

type flashExpiredMsg struct{ seq uint64 }

// Commands. Every argument is captured when the command is built; nothing
// here touches the Model.

func loginCmd(ctx context.Context, gw rescue.Gateway, gen uint64, username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginMsg(state.Authenticate(ctx, gw, gen, username, password))
	}
}

func fetchDashboardCmd(ctx context.Context, gw rescue.Gateway, gen uint64) tea.Cmd {
	return func() tea.Msg {
		return dashboardMsg(state.FetchDashboard(ctx, gw, gen))
	}
}

func fetchPortalCmd(ctx context.Context, gw rescue.Gateway, gen uint64) tea.Cmd {
	return func() tea.Msg {
		return portalMsg(state.FetchPortal(ctx, gw, gen))
	}
}

func fetchVetPetsCmd(ctx context.Context, gw rescue.Gateway, gen uint64) tea.Cmd {
	return func() tea.Msg {
		return vetPetsMsg(state.FetchVetPets(ctx, gw, gen))
	}
}

func fetchMedicalCmd(ctx context.Context, gw rescue.Gateway, gen uint64, petID int64) tea.Cmd {
	return func() tea.Msg {
		return medicalMsg(state.FetchMedical(ctx, gw, gen, petID))
	}
}

func fetchSettingsCmd(ctx context.Context, gw rescue.Gateway, gen uint64) tea.Cmd {
	return func() tea.Msg {
		return settingsMsg(state.FetchSettings(ctx, gw, gen))
	}
}

func saveSettingsCmd(ctx context.Context, gw rescue.Gateway, gen uint64, draft rescue.Organization) tea.Cmd {
	return func() tea.Msg {
		return settingsSavedMsg(state.SaveSettings(ctx, gw, gen, draft))
	}
}

func expireFlashCmd(d time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}
