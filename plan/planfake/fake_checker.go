package planfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/plan"
)

var _ plan.Checker = (*FakeChecker)(nil)

// FakeChecker answers plan checks from an in-memory table. Calls for a held
// phone number block until the hold is released or the context ends.
type FakeChecker struct {
	statuses map[string]plan.Status
	holds    map[string]chan struct{}
	calls    []string
	called   chan string
	lock     sync.RWMutex
}

func NewFakeChecker() *FakeChecker {
	return &FakeChecker{
		statuses: make(map[string]plan.Status),
		holds:    make(map[string]chan struct{}),
		called:   make(chan string, 64),
	}
}

func (fc *FakeChecker) SetStatus(phoneNumber string, status plan.Status) {
	fc.lock.Lock()
	defer fc.lock.Unlock()
	fc.statuses[phoneNumber] = status
}

// Hold makes subsequent checks for phoneNumber block. The returned func releases them.
func (fc *FakeChecker) Hold(phoneNumber string) (release func()) {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	gate := make(chan struct{})
	fc.holds[phoneNumber] = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			fc.lock.Lock()
			if fc.holds[phoneNumber] == gate {
				delete(fc.holds, phoneNumber)
			}
			fc.lock.Unlock()
			close(gate)
		})
	}
}

func (fc *FakeChecker) CheckPlan(ctx context.Context, phoneNumber string) plan.Status {
	fc.lock.Lock()
	fc.calls = append(fc.calls, phoneNumber)
	gate := fc.holds[phoneNumber]
	fc.lock.Unlock()

	select {
	case fc.called <- phoneNumber:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return plan.FailedOpenStatus()
		}
	}

	fc.lock.RLock()
	defer fc.lock.RUnlock()
	status, ok := fc.statuses[phoneNumber]
	if !ok {
		return plan.DefaultStatus()
	}
	return status
}

// Calls returns the phone numbers checked so far, in call order.
func (fc *FakeChecker) Calls() []string {
	fc.lock.RLock()
	defer fc.lock.RUnlock()
	return append([]string(nil), fc.calls...)
}

// WaitForCall blocks until a check starts or ctx ends.
func (fc *FakeChecker) WaitForCall(ctx context.Context) (string, bool) {
	select {
	case phone := <-fc.called:
		return phone, true
	case <-ctx.Done():
		return "", false
	}
}
