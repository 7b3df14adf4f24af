// internal/arbiter/arbiter.go

// Package arbiter implements the single-flight lobby election. N bots
// connect concurrently and exactly one of them may create the lobby; the
// rest block until the winner publishes the lobby ID, then join it.
package arbiter

import (
	"context"
	"sync"
)

type status int

const (
	unclaimed status = iota
	claimInProgress
	resolved
)

// Arbiter is the one piece of state shared between bots. The critical
// section covers only the tri-state transition; network I/O happens outside
// the lock. Waiters block on a notification channel rather than polling.
type Arbiter struct {
	mu      sync.Mutex
	state   status
	lobbyID string
	changed chan struct{} // closed and replaced on every transition
}

// New returns an unclaimed arbiter. Each swarm run owns exactly one.
func New() *Arbiter {
	return &Arbiter{changed: make(chan struct{})}
}

// Outcome is the result of ClaimOrWait.
type Outcome struct {
	// Creator is true for the single caller elected to create the lobby.
	// That caller must follow up with Resolve or Fail; until it does, every
	// other caller stays blocked (bounded by its context).
	Creator bool
	// LobbyID is the published lobby, set when Creator is false.
	LobbyID string
}

// ClaimOrWait elects a creator or waits for one. Exactly one concurrent
// caller observes Creator=true at a time; everyone else blocks until the
// election resolves, the claim fails (at which point one waiter inherits
// the claim), or ctx ends.
func (a *Arbiter) ClaimOrWait(ctx context.Context) (Outcome, error) {
	for {
		a.mu.Lock()
		switch a.state {
		case unclaimed:
			a.state = claimInProgress
			a.mu.Unlock()
			return Outcome{Creator: true}, nil
		case resolved:
			id := a.lobbyID
			a.mu.Unlock()
			return Outcome{LobbyID: id}, nil
		default: // claimInProgress
			wait := a.changed
			a.mu.Unlock()
			select {
			case <-wait:
			case <-ctx.Done():
				return Outcome{}, ctx.Err()
			}
		}
	}
}

// Resolve publishes the created lobby and wakes all waiters. Monotone: the
// first resolution wins and later calls are no-ops.
func (a *Arbiter) Resolve(lobbyID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == resolved {
		return
	}
	a.state = resolved
	a.lobbyID = lobbyID
	a.notify()
}

// Fail abandons an in-progress claim, typically because the server rejected
// the creation or the creator died. The cell returns to unclaimed and all
// waiters wake; the next one through ClaimOrWait becomes the new creator.
// No-op once resolved.
func (a *Arbiter) Fail() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != claimInProgress {
		return
	}
	a.state = unclaimed
	a.notify()
}

// Resolved reports whether the election has completed, and with which lobby.
func (a *Arbiter) Resolved() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lobbyID, a.state == resolved
}

// notify wakes everyone blocked on the current generation. Callers hold mu.
func (a *Arbiter) notify() {
	close(a.changed)
	a.changed = make(chan struct{})
}
