// Package route maps session state onto the top-level flow a user may reach.
package route

// Decision is the outcome of the route gate.
type Decision int

const (
	// Pending means an asynchronous check is still running; render a loading indicator.
	Pending Decision = iota
	// Unauthenticated routes to the login/signup/forgot-password flow.
	Unauthenticated
	// ExpiredPlan routes to the plan renewal screen.
	ExpiredPlan
	// Authenticated routes to the main application.
	Authenticated
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Unauthenticated:
		return "unauthenticated"
	case ExpiredPlan:
		return "expired-plan"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Settled reports whether navigation may happen for d.
func (d Decision) Settled() bool {
	return d != Pending
}

// Decide evaluates the gate. Rules apply in priority order: pending checks,
// then authentication, then plan activity.
func Decide(authenticated, planActive, anyPending bool) Decision {
	switch {
	case anyPending:
		return Pending
	case !authenticated:
		return Unauthenticated
	case !planActive:
		return ExpiredPlan
	default:
		return Authenticated
	}
}
