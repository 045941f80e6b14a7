package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/internal/metrics"
	"github.com/jrsteele09/go-auth-client/plan"
	"github.com/jrsteele09/go-auth-client/route"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/tokenstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotStarted     = errors.ErrNotStarted
	ErrAlreadyStarted = errors.ErrAlreadyStarted
)

type observer struct {
	id uint64
	fn func(Snapshot)
}

// Controller owns the session: it is the only component that touches the
// token store, and every state change flows through it to its observers.
//
// Observers run synchronously on the goroutine that caused the transition and
// must not call Start, Login, Logout, RecheckPlan or Close from inside the callback.
type Controller struct {
	store   tokenstore.Store
	decoder token.Decoder
	checker plan.Checker
	metrics *metrics.Metrics
	nowFunc func() time.Time

	opMu         sync.Mutex // serialises store I/O
	transitionMu sync.Mutex // orders transitions and their notifications

	mu         sync.RWMutex
	snap       Snapshot
	started    bool
	closed     bool
	seq        uint64
	changed    chan struct{}
	observers  []observer
	observerID uint64
	lastRoute  route.Decision
	refresh    string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Controller)

// WithMetrics records session metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(c *Controller) {
		c.nowFunc = now
	}
}

func NewController(store tokenstore.Store, decoder token.Decoder, checker plan.Checker, options ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		store:     store,
		decoder:   decoder,
		checker:   checker,
		snap:      initialSnapshot(),
		changed:   make(chan struct{}),
		lastRoute: route.Pending,
		ctx:       ctx,
		cancel:    cancel,
	}

	for _, opt := range options {
		opt(c)
	}

	if c.metrics == nil {
		c.metrics = metrics.New(prometheus.NewRegistry())
	}
	if c.nowFunc == nil {
		c.nowFunc = time.Now
	}
	return c
}

// Start reads the stored token and settles the authentication state.
// A store read failure leaves the session unauthenticated and is returned.
func (c *Controller) Start(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.mu.Unlock()

	creds, found, err := c.store.Read(ctx)
	if err != nil {
		c.metrics.StorageFailures.Inc()
		log.Err(err).Msg("reading stored credentials failed, starting unauthenticated")
		c.becomeUnauthenticated()
		return storageErr("start", err)
	}
	if !found {
		log.Debug().Msg("no stored credentials")
		c.becomeUnauthenticated()
		return nil
	}

	c.becomeAuthenticated(creds.AccessToken, creds.RefreshToken)
	return nil
}

// Login persists the tokens and then marks the session authenticated. If the
// write fails the state is left as it was.
func (c *Controller) Login(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" {
		return errors.Wrapf(errors.ErrValidation, "login: empty access token")
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.isStarted() {
		return ErrNotStarted
	}

	creds := tokenstore.StoredCredentials{AccessToken: accessToken, RefreshToken: refreshToken}
	if err := c.store.Save(ctx, creds); err != nil {
		c.metrics.StorageFailures.Inc()
		log.Err(err).Msg("saving credentials failed")
		return storageErr("login", err)
	}

	c.metrics.Logins.Inc()
	c.becomeAuthenticated(accessToken, refreshToken)
	return nil
}

// Logout clears the stored tokens and marks the session unauthenticated. The
// session is unauthenticated afterwards even when clearing the store fails.
func (c *Controller) Logout(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.isStarted() {
		return ErrNotStarted
	}

	clearErr := c.store.Clear(ctx)
	if clearErr != nil {
		c.metrics.StorageFailures.Inc()
		log.Err(clearErr).Msg("clearing credentials failed")
	}

	c.metrics.Logouts.Inc()
	c.becomeUnauthenticated()

	if clearErr != nil {
		return storageErr("logout", clearErr)
	}
	return nil
}

// RecheckPlan runs the plan check again for the current phone number.
// It returns false when there is no authenticated session with a phone number.
func (c *Controller) RecheckPlan() bool {
	var (
		seq   uint64
		phone string
	)
	ok := c.transition(func(s *Snapshot) bool {
		phone = s.PhoneNumber()
		if !s.Session.Authenticated || phone == "" {
			return false
		}
		c.seq++
		seq = c.seq
		s.PlanPending = true
		return true
	})
	if ok {
		c.launchPlanCheck(seq, phone)
	}
	return ok
}

func (c *Controller) State() SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Session
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// RefreshToken returns the refresh token of the current session, or "" when
// there is no session or the server issued none.
func (c *Controller) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresh
}

// Subscribe registers fn for every transition that happens after the call.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	c.observerID++
	id := c.observerID
	c.observers = append(c.observers, observer{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, o := range c.observers {
				if o.id == id {
					c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// WaitForRoute blocks until the route gate settles or ctx ends.
func (c *Controller) WaitForRoute(ctx context.Context) (route.Decision, error) {
	for {
		c.mu.RLock()
		snap, changed := c.snap, c.changed
		c.mu.RUnlock()

		if d := snap.Route(); d.Settled() {
			return d, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return route.Pending, ctx.Err()
		}
	}
}

// Close cancels in-flight plan checks and waits for them to return.
// Results arriving after Close are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) isStarted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started
}

func (c *Controller) becomeAuthenticated(accessToken, refreshToken string) {
	claims, err := c.decoder.Decode(accessToken)
	if err != nil {
		log.Warn().Err(err).Msg("stored access token could not be decoded, skipping plan check")
		claims = nil
	}
	phone := claims.Phone()

	var seq uint64
	c.transition(func(s *Snapshot) bool {
		c.seq++
		seq = c.seq
		c.refresh = refreshToken
		s.Phase = PhaseAuthenticated
		s.Session = SessionState{Authenticated: true}
		s.Claims = claims
		s.Plan = plan.DefaultStatus()
		s.PlanPending = phone != ""
		return true
	})

	if phone != "" {
		c.launchPlanCheck(seq, phone)
	}
}

func (c *Controller) becomeUnauthenticated() {
	c.transition(func(s *Snapshot) bool {
		c.seq++
		c.refresh = ""
		s.Phase = PhaseUnauthenticated
		s.Session = SessionState{}
		s.Claims = nil
		s.Plan = plan.DefaultStatus()
		s.PlanPending = false
		return true
	})
}

func (c *Controller) launchPlanCheck(seq uint64, phone string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()

		started := c.nowFunc()
		status := c.checker.CheckPlan(c.ctx, phone)
		c.metrics.PlanCheckDurationMs.Observe(float64(c.nowFunc().Sub(started).Milliseconds()))

		c.applyPlanResult(seq, status)
	}()
}

func (c *Controller) applyPlanResult(seq uint64, status plan.Status) {
	applied := c.transition(func(s *Snapshot) bool {
		if c.closed || seq != c.seq {
			return false
		}
		s.Plan = status
		s.PlanPending = false
		return true
	})

	if !applied {
		c.metrics.StalePlanResults.Inc()
		log.Debug().Uint64("seq", seq).Msg("discarding superseded plan result")
		return
	}

	c.metrics.PlanChecks.WithLabelValues(metrics.PlanOutcome(status.Active, status.FailedOpen)).Inc()
	if !status.Active {
		log.Info().Str("message", status.Message).Msg("plan inactive")
	}
}

// transition applies fn to the state under the lock and, if fn reports a
// change, notifies observers in order before the next transition may begin.
func (c *Controller) transition(fn func(s *Snapshot) bool) bool {
	c.transitionMu.Lock()
	defer c.transitionMu.Unlock()

	c.mu.Lock()
	if !fn(&c.snap) {
		c.mu.Unlock()
		return false
	}
	c.snap.Version++
	snap := c.snap
	observers := append([]observer(nil), c.observers...)
	changed := c.changed
	c.changed = make(chan struct{})
	c.mu.Unlock()

	close(changed)
	c.recordRoute(snap.Route())

	for _, o := range observers {
		o.fn(snap)
	}
	return true
}

func (c *Controller) recordRoute(d route.Decision) {
	if d == c.lastRoute {
		return
	}
	c.lastRoute = d
	if !d.Settled() {
		return
	}
	c.metrics.RouteDecisions.WithLabelValues(d.String()).Inc()
	log.Debug().Str("route", d.String()).Msg("route decided")
}

func storageErr(op string, err error) error {
	if errors.Is(err, tokenstore.ErrStorage) {
		return errors.Wrapf(err, "session %s", op)
	}
	return fmt.Errorf("session %s: %w: %w", op, tokenstore.ErrStorage, err)
}
