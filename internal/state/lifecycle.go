package state

import (
	"context"
	"sync/atomic"
)

// Phase is where a controller's fetch lifecycle currently sits.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// generations is shared by every Load so that a generation is never reused,
// even by a controller built to replace an abandoned one.
var generations atomic.Uint64

func nextGeneration() uint64 { return generations.Add(1) }

// Load tracks one fetch lifecycle. Every Begin issues a new generation and
// cancels the context handed out for the previous one; Finish ignores any
// generation that is no longer current.
type Load struct {
	phase  Phase
	err    error
	gen    uint64
	cancel context.CancelFunc
}

// Begin starts a new generation and returns the context its fetch must use.
func (l *Load) Begin(parent context.Context) (uint64, context.Context) {
	if parent == nil {
		parent = context.Background()
	}
	l.release()
	ctx, cancel := context.WithCancel(parent)
	l.gen = nextGeneration()
	l.cancel = cancel
	l.phase = PhaseLoading
	l.err = nil
	return l.gen, ctx
}

// Current reports whether gen is the live generation.
func (l *Load) Current(gen uint64) bool {
	return gen != 0 && gen == l.gen && l.phase == PhaseLoading
}

// Finish settles the live generation. It returns false, leaving state
// untouched, when gen is stale.
func (l *Load) Finish(gen uint64, err error) bool {
	if !l.Current(gen) {
		return false
	}
	l.release()
	if err != nil {
		l.phase = PhaseError
		l.err = err
		return true
	}
	l.phase = PhaseReady
	l.err = nil
	return true
}

// Stop abandons any in-flight fetch. Its result will be discarded.
func (l *Load) Stop() {
	l.release()
	if l.phase == PhaseLoading {
		l.gen = nextGeneration()
		l.phase = PhaseIdle
	}
}

// Reset abandons any in-flight fetch and returns to PhaseIdle, forgetting a
// previous error.
func (l *Load) Reset() {
	l.release()
	l.gen = nextGeneration()
	l.phase = PhaseIdle
	l.err = nil
}

// Phase returns the current phase.
func (l *Load) Phase() Phase { return l.phase }

// Err returns the error that moved the lifecycle into PhaseError.
func (l *Load) Err() error { return l.err }

// Generation returns the most recently issued generation.
func (l *Load) Generation() uint64 { return l.gen }

func (l *Load) release() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
