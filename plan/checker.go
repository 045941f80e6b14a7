package plan

import "context"

// Checker reports whether the subscription attached to a phone number is active.
// CheckPlan never fails: implementations resolve errors to an active status.
type Checker interface {
	CheckPlan(ctx context.Context, phoneNumber string) Status
}
