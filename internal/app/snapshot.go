package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/rescueworks/rescuetui/internal/rescue"
	"github.com/rescueworks/rescuetui/internal/session"
	"github.com/rescueworks/rescuetui/internal/state"
)

// SnapshotOptions configure a one-shot dashboard print.
type SnapshotOptions struct {
	Options
	Username string
	Password string
	Out      io.Writer // nil uses color.Output
}

// Snapshot signs in, loads the dashboard once and prints it.
func Snapshot(ctx context.Context, opts SnapshotOptions) (err error) {
	e, err := setup(opts.Options)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, e.Close())
	}()

	out := opts.Out
	if out == nil {
		out = color.Output
	}
	dash, err := loadSnapshot(ctx, e.client, e.session, opts.Username, opts.Password)
	if err != nil {
		e.log.Warn("snapshot failed", "user", opts.Username, "error", err)
		return err
	}
	printSnapshot(out, dash)
	return nil
}

// loadSnapshot drives the same controllers the TUI uses, synchronously.
func loadSnapshot(ctx context.Context, gw rescue.Gateway, store *session.Store, username, password string) (*state.Dashboard, error) {
	login := state.NewLogin(store)
	login.Username = strings.TrimSpace(username)
	login.Password = password
	gen, loginCtx, err := login.BeginSubmit(ctx)
	if err != nil {
		return nil, err
	}
	if !login.Apply(state.Authenticate(loginCtx, gw, gen, login.Username, login.Password)) {
		return nil, errors.New(login.Message())
	}

	dash := state.NewDashboard()
	gen, loadCtx := dash.Begin(ctx)
	dash.Apply(state.FetchDashboard(loadCtx, gw, gen))
	if dash.Phase() != state.PhaseReady {
		return nil, fmt.Errorf("load dashboard: %w", dash.Err())
	}
	return dash, nil
}

func printSnapshot(w io.Writer, dash *state.Dashboard) {
	bold := color.New(color.Bold)
	stats := dash.Stats()

	_, _ = fmt.Fprintln(w, "")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Donations"), fmt.Sprintf("$%.2f", stats.TotalDonations))
	tbl.AddRow(bold.Sprint("Available pets"), stats.AvailablePets)
	tbl.AddRow(bold.Sprint("Pending applications"), stats.PendingApplications)
	tbl.AddRow(bold.Sprint("Urgent tasks"), stats.UrgentTasks)
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w, "")

	pets := dash.FilteredPets()
	if len(pets) == 0 {
		_, _ = fmt.Fprintln(w, "No pets.")
		return
	}
	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 32
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Species"), bold.Sprint("Breed"), bold.Sprint("Status"))
	for _, pet := range pets {
		tbl.AddRow(pet.ID, pet.Name, pet.Species, pet.BreedLabel(), statusColor(pet.Status).Sprint(pet.Status))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintf(w, "\n%d pets\n", len(pets))
}

func statusColor(status string) *color.Color {
	switch status {
	case rescue.PetAvailable:
		return color.New(color.FgGreen)
	case rescue.PetInFoster:
		return color.New(color.FgCyan)
	case rescue.PetPending:
		return color.New(color.FgYellow)
	case rescue.PetAdopted:
		return color.New(color.FgMagenta)
	}
	return color.New(color.Reset)
}
