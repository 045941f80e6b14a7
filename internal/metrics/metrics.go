package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Plan check outcome label values.
const (
	OutcomeActive     = "active"
	OutcomeInactive   = "inactive"
	OutcomeFailedOpen = "failed_open"
)

// Metrics holds Prometheus collectors for session gating.
type Metrics struct {
	Logins              prometheus.Counter
	Logouts             prometheus.Counter
	StorageFailures     prometheus.Counter
	PlanChecks          *prometheus.CounterVec
	StalePlanResults    prometheus.Counter
	PlanCheckDurationMs prometheus.Histogram
	RouteDecisions      *prometheus.CounterVec
}

// New registers session collectors with reg. Passing nil uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Logins: factory.NewCounter(prometheus.CounterOpts{
			Name: "authclient_logins_total",
			Help: "Total number of successful logins",
		}),
		Logouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "authclient_logouts_total",
			Help: "Total number of logouts",
		}),
		StorageFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "authclient_token_storage_failures_total",
			Help: "Total number of token store read, write or clear failures",
		}),
		PlanChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authclient_plan_checks_total",
			Help: "Total number of applied plan checks by outcome",
		}, []string{"outcome"}),
		StalePlanResults: factory.NewCounter(prometheus.CounterOpts{
			Name: "authclient_plan_results_stale_total",
			Help: "Plan check results discarded because a newer check superseded them",
		}),
		PlanCheckDurationMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "authclient_plan_check_duration_ms",
			Help:    "Duration of plan checks in milliseconds",
			Buckets: []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		RouteDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authclient_route_decisions_total",
			Help: "Total number of settled route decisions by route",
		}, []string{"route"}),
	}
}

// PlanOutcome maps a plan result onto its outcome label.
func PlanOutcome(active, failedOpen bool) string {
	switch {
	case failedOpen:
		return OutcomeFailedOpen
	case active:
		return OutcomeActive
	default:
		return OutcomeInactive
	}
}
