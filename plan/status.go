package plan

import "github.com/jrsteele09/go-auth-client/internal/errors"

// FailOpenMessage is attached to the status produced when the plan endpoint could not be consulted.
const FailOpenMessage = "Unable to verify plan. Please try again later."

// ErrPlanCheck wraps transport, status and decoding failures from the plan endpoint.
var ErrPlanCheck = errors.ErrPlanCheck

// Status is the subscription state reported for a phone number.
type Status struct {
	Active     bool   `json:"active"`
	Message    string `json:"message,omitempty"`
	FailedOpen bool   `json:"-"`
}

// DefaultStatus is the status assumed before any check has resolved.
func DefaultStatus() Status {
	return Status{Active: true}
}

// FailedOpenStatus is returned in place of an error.
func FailedOpenStatus() Status {
	return Status{Active: true, Message: FailOpenMessage, FailedOpen: true}
}
