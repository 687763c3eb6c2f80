package state

import (
	"context"
	"slices"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

// PortalResult carries a finished /portal/me fetch.
type PortalResult struct {
	Gen     uint64
	Summary rescue.PortalSummary
	Err     error
}

// FetchPortal loads the signed-in user's portal summary.
func FetchPortal(ctx context.Context, gw rescue.Gateway, gen uint64) PortalResult {
	summary, err := gw.FetchPortal(ctx)
	return PortalResult{Gen: gen, Summary: summary, Err: err}
}

// Portal is the "my portal" controller for applicants and fosters.
type Portal struct {
	load    Load
	summary rescue.PortalSummary
}

func NewPortal() *Portal { return &Portal{} }

func (p *Portal) Begin(parent context.Context) (uint64, context.Context) {
	return p.load.Begin(parent)
}

// Apply stores a fetch result, returning false when it is stale.
func (p *Portal) Apply(res PortalResult) bool {
	if !p.load.Finish(res.Gen, res.Err) {
		return false
	}
	if res.Err == nil {
		p.summary = res.Summary
	}
	return true
}

func (p *Portal) Close()       { p.load.Stop() }
func (p *Portal) Phase() Phase { return p.load.Phase() }
func (p *Portal) Err() error   { return p.load.Err() }

func (p *Portal) Applications() []rescue.Application {
	return slices.Clone(p.summary.MyApplications)
}

func (p *Portal) FosterPets() []rescue.Pet {
	return slices.Clone(p.summary.MyFosterPets)
}

func (p *Portal) Tasks() []rescue.Task {
	return slices.Clone(p.summary.MyTasks)
}

// Counts returns the sizes of the three portal lists.
func (p *Portal) Counts() (applications, fosters, tasks int) {
	return len(p.summary.MyApplications), len(p.summary.MyFosterPets), len(p.summary.MyTasks)
}
