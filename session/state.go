package session

import (
	"github.com/jrsteele09/go-auth-client/plan"
	"github.com/jrsteele09/go-auth-client/route"
	"github.com/jrsteele09/go-auth-client/token"
)

// Phase is the lifecycle position of the controller.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// SessionState is the minimal view most consumers need.
type SessionState struct {
	Authenticated bool
	Loading       bool // true until the stored token has been read at startup
}

// Snapshot is a consistent copy of everything the controller knows.
type Snapshot struct {
	Phase       Phase
	Session     SessionState
	Claims      *token.Claims // nil when logged out or when the token could not be decoded
	Plan        plan.Status
	PlanPending bool
	Version     uint64 // incremented on every transition
}

// Route evaluates the route gate for this snapshot.
func (s Snapshot) Route() route.Decision {
	return route.Decide(s.Session.Authenticated, s.Plan.Active, s.Session.Loading || s.PlanPending)
}

// PhoneNumber is the phone_number claim of the current token, or "".
func (s Snapshot) PhoneNumber() string {
	return s.Claims.Phone()
}

func initialSnapshot() Snapshot {
	return Snapshot{
		Phase:   PhaseInitializing,
		Session: SessionState{Loading: true},
		Plan:    plan.DefaultStatus(),
	}
}
