package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "")
		t.Setenv("AUTH_BASE_URL", "")
		t.Setenv("FEED_BASE_URL", "")
		c := config.New()
		require.Equal(t, "https://api.pridecons.sbs", c.GetAPIBaseURL())
		require.Equal(t, "https://api.pridecons.sbs", c.GetAuthBaseURL())
		require.Equal(t, "https://pridecons.sbs", c.GetFeedBaseURL())
	})

	t.Run("environment with trailing slash", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "http://localhost:8000/")
		require.Equal(t, "http://localhost:8000", config.New().GetAPIBaseURL())
	})

	t.Run("override beats environment", func(t *testing.T) {
		t.Setenv("FEED_BASE_URL", "http://env.example")
		c := config.New(config.WithFeedBaseURL("http://flag.example"))
		require.Equal(t, "http://flag.example", c.GetFeedBaseURL())
	})
}

func TestPlanCheckTimeout(t *testing.T) {
	t.Setenv("PLAN_CHECK_TIMEOUT", "")
	require.Equal(t, 10*time.Second, config.New().GetPlanCheckTimeout())

	t.Setenv("PLAN_CHECK_TIMEOUT", "250ms")
	require.Equal(t, 250*time.Millisecond, config.New().GetPlanCheckTimeout())

	t.Setenv("PLAN_CHECK_TIMEOUT", "soon")
	require.Equal(t, 10*time.Second, config.New().GetPlanCheckTimeout())

	t.Setenv("PLAN_CHECK_TIMEOUT", "-1s")
	require.Equal(t, 10*time.Second, config.New().GetPlanCheckTimeout())
}

func TestTokenStorePath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("TOKEN_STORE_PATH", filepath.Join(dir, "env.json"))
	require.Equal(t, filepath.Join(dir, "env.json"), config.New().GetTokenStorePath())

	c := config.New(config.WithTokenStorePath(filepath.Join(dir, "flag.json")))
	require.Equal(t, filepath.Join(dir, "flag.json"), c.GetTokenStorePath())

	t.Setenv("TOKEN_STORE_PATH", "")
	t.Setenv("HOME", dir)
	require.Equal(t, filepath.Join(dir, ".go-auth-client", "credentials.json"), config.New().GetTokenStorePath())
}

func TestLogSettings(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "JSON")
	c := config.New()
	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, "json", c.GetLogFormat())

	t.Setenv("LOG_FORMAT", "")
	require.Equal(t, "console", config.New().GetLogFormat())
}

func TestOAuthScopes(t *testing.T) {
	t.Setenv("OAUTH_SCOPE", "")
	require.Empty(t, config.New().GetScopes())

	t.Setenv("OAUTH_SCOPE", "read  write")
	require.Equal(t, []string{"read", "write"}, config.New().GetScopes())
}
