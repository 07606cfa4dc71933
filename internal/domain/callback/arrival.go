// Package callback models a single arrival at the login callback and guarantees the
// session exchange for it runs at most once.
package callback

import (
	"context"
	"sync"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

// State is the lifecycle position of an arrival.
type State int

const (
	StateIdle State = iota
	StateExchanging
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExchanging:
		return "exchanging"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Arrival is a one-shot state machine: Idle -> Exchanging -> Succeeded | Failed.
// Exactly one caller wins Begin; every other caller waits for the terminal state.
type Arrival struct {
	mu      sync.Mutex
	state   State
	done    chan struct{}
	session domainauth.Session
	err     error
}

// NewArrival returns an arrival in the Idle state.
func NewArrival() *Arrival {
	return &Arrival{done: make(chan struct{})}
}

// Begin moves Idle to Exchanging and reports whether the caller owns the exchange.
func (a *Arrival) Begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateIdle {
		return false
	}
	a.state = StateExchanging
	return true
}

// Succeed records the exchanged session. Only the owner of Begin may call it; later
// calls after a terminal state are ignored.
func (a *Arrival) Succeed(session domainauth.Session) {
	a.finish(StateSucceeded, session, nil)
}

// Fail records the exchange error.
func (a *Arrival) Fail(err error) {
	a.finish(StateFailed, domainauth.Session{}, err)
}

func (a *Arrival) finish(state State, session domainauth.Session, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateExchanging {
		return
	}
	a.state = state
	a.session = session
	a.err = err
	close(a.done)
}

// Wait blocks until the arrival reaches a terminal state or ctx is done.
func (a *Arrival) Wait(ctx context.Context) (domainauth.Session, error) {
	select {
	case <-a.done:
	case <-ctx.Done():
		return domainauth.Session{}, ctx.Err()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session, a.err
}

// State returns the current state.
func (a *Arrival) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}
