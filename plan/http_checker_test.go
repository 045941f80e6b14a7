package plan_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPChecker_CheckPlan(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantActive bool
		wantMsg    string
		failedOpen bool
	}{
		{name: "active", status: http.StatusOK, body: `{"active":true}`, wantActive: true},
		{name: "inactive with message", status: http.StatusOK, body: `{"active":false,"message":"Your plan expired on 01/02"}`, wantActive: false, wantMsg: "Your plan expired on 01/02"},
		{name: "server error fails open", status: http.StatusInternalServerError, body: `{"active":false}`, wantActive: true, wantMsg: plan.FailOpenMessage, failedOpen: true},
		{name: "not found fails open", status: http.StatusNotFound, body: ``, wantActive: true, wantMsg: plan.FailOpenMessage, failedOpen: true},
		{name: "malformed body fails open", status: http.StatusOK, body: `{"active":`, wantActive: true, wantMsg: plan.FailOpenMessage, failedOpen: true},
		{name: "missing active field fails open", status: http.StatusOK, body: `{"message":"hi"}`, wantActive: true, wantMsg: plan.FailOpenMessage, failedOpen: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newPlanServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/plan/check-plan/9876543210", r.URL.Path)
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				assert.Empty(t, r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			status := plan.NewHTTPChecker(srv.URL).CheckPlan(context.Background(), "9876543210")
			require.Equal(t, tt.wantActive, status.Active)
			require.Equal(t, tt.wantMsg, status.Message)
			require.Equal(t, tt.failedOpen, status.FailedOpen)
		})
	}
}

func TestHTTPChecker_Fetch(t *testing.T) {
	t.Run("returns error for non-2xx", func(t *testing.T) {
		srv := newPlanServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		status, err := plan.NewHTTPChecker(srv.URL).Fetch(context.Background(), "9876543210")
		require.Nil(t, status)
		require.ErrorIs(t, err, plan.ErrPlanCheck)
	})

	t.Run("returns error for unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := plan.NewHTTPChecker(url).Fetch(context.Background(), "9876543210")
		require.ErrorIs(t, err, plan.ErrPlanCheck)
	})

	t.Run("rejects empty phone number", func(t *testing.T) {
		_, err := plan.NewHTTPChecker("http://127.0.0.1:1").Fetch(context.Background(), "")
		require.ErrorIs(t, err, plan.ErrPlanCheck)
	})
}

func TestHTTPChecker_EscapesPhoneNumber(t *testing.T) {
	var gotPath atomic.Value
	srv := newPlanServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"active":true}`))
	})

	status := plan.NewHTTPChecker(srv.URL+"/").CheckPlan(context.Background(), "+91 98765/43210")
	require.True(t, status.Active)
	require.False(t, status.FailedOpen)
	require.Equal(t, "/plan/check-plan/+91%2098765%2F43210", gotPath.Load())
}

func TestHTTPChecker_EmptyPhoneSendsNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := newPlanServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	status := plan.NewHTTPChecker(srv.URL).CheckPlan(context.Background(), "")
	require.Equal(t, plan.DefaultStatus(), status)
	require.Zero(t, hits.Load())
}

func TestHTTPChecker_TimeoutFailsOpen(t *testing.T) {
	srv := newPlanServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	timeout := 100 * time.Millisecond
	checker := plan.NewHTTPChecker(srv.URL, plan.WithTimeout(timeout))

	start := time.Now()
	status := checker.CheckPlan(context.Background(), "9876543210")
	elapsed := time.Since(start)

	require.True(t, status.Active)
	require.True(t, status.FailedOpen)
	require.Equal(t, plan.FailOpenMessage, status.Message)
	require.Less(t, elapsed, timeout+2*time.Second)
}

func TestHTTPChecker_CallerCancellation(t *testing.T) {
	srv := newPlanServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := plan.NewHTTPChecker(srv.URL).Fetch(ctx, "9876543210")
	require.ErrorIs(t, err, plan.ErrPlanCheck)
	require.ErrorIs(t, err, context.Canceled)
}
