// Package state provides the per-screen view-state controllers for rescuetui.
//
// # Overview
//
// Every screen repeats the same pattern: fetch on mount, keep the last
// snapshot, derive filtered projections from it, and accept local edits. This
// package holds that pattern once (Load, memo) and instantiates it for each
// screen (Dashboard, Portal, Vet, Settings, Login).
//
// # Threading
//
// Controllers are not safe for concurrent use. They are mutated only on the
// Bubble Tea Update goroutine. Network work runs in the free Fetch* functions,
// which receive everything they need as arguments and return a result value:
//
//	gen, ctx := dash.Begin(parent)           // Update goroutine
//	res := state.FetchDashboard(ctx, gw, gen) // command goroutine
//	dash.Apply(res)                          // Update goroutine again
//
// # Generations
//
// Load hands out a monotonically increasing generation per Begin and cancels
// the context of the previous one. Apply methods drop any result whose
// generation is not current, so abandoned navigation and rapid re-selection
// never write stale data.
//
// # Lifecycle
//
//	Idle ──Begin──▶ Loading ──Finish(nil)──▶ Ready
//	                   │
//	                   └──Finish(err)──▶ Error ──Begin──▶ Loading
//
// Stop moves Loading back to Idle and invalidates the in-flight generation.
//
// # Projections
//
// FilteredPets and Stats are pure functions of the last snapshot and the
// filter inputs. They are cached per (revision, search, status) and returned
// as copies.
package state
