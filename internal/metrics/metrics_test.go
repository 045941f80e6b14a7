package metrics_test

import (
	"testing"

	"github.com/jrsteele09/go-auth-client/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPlanOutcome(t *testing.T) {
	require.Equal(t, metrics.OutcomeActive, metrics.PlanOutcome(true, false))
	require.Equal(t, metrics.OutcomeInactive, metrics.PlanOutcome(false, false))
	require.Equal(t, metrics.OutcomeFailedOpen, metrics.PlanOutcome(true, true))
}

func TestNew(t *testing.T) {
	t.Run("separate registries do not conflict", func(t *testing.T) {
		a := metrics.New(prometheus.NewRegistry())
		b := metrics.New(prometheus.NewRegistry())

		a.Logins.Inc()
		require.Equal(t, 1.0, testutil.ToFloat64(a.Logins))
		require.Equal(t, 0.0, testutil.ToFloat64(b.Logins))
	})

	t.Run("collectors are registered", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		m.PlanChecks.WithLabelValues(metrics.OutcomeActive).Inc()
		m.RouteDecisions.WithLabelValues("authenticated").Inc()

		count, err := testutil.GatherAndCount(reg, "authclient_plan_checks_total", "authclient_route_decisions_total")
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})
}
