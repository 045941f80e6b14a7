package config

import (
	"strings"
	"time"
)

const (
	apiBaseURLVar  = "API_BASE_URL"
	authBaseURLVar = "AUTH_BASE_URL"
	feedBaseURLVar = "FEED_BASE_URL"
	httpTimeoutVar = "HTTP_TIMEOUT"

	defaultAPIBaseURL  = "https://api.pridecons.sbs"
	defaultFeedBaseURL = "https://pridecons.sbs"
)

type EndpointConfig interface {
	// GetAPIBaseURL is the root for the plan endpoints
	GetAPIBaseURL() string
	// GetAuthBaseURL is the root for the account and researcher endpoints
	GetAuthBaseURL() string
	GetFeedBaseURL() string
	GetHTTPTimeout() time.Duration
}

// Endpoints resolves base URLs from explicit overrides first, then the environment.
type Endpoints struct {
	apiBaseURL  string
	authBaseURL string
	feedBaseURL string
}

var _ EndpointConfig = (*Endpoints)(nil)

func (e *Endpoints) GetAPIBaseURL() string {
	return resolveURL(e.apiBaseURL, apiBaseURLVar, defaultAPIBaseURL)
}

func (e *Endpoints) GetAuthBaseURL() string {
	return resolveURL(e.authBaseURL, authBaseURLVar, defaultAPIBaseURL)
}

func (e *Endpoints) GetFeedBaseURL() string {
	return resolveURL(e.feedBaseURL, feedBaseURLVar, defaultFeedBaseURL)
}

func (e *Endpoints) GetHTTPTimeout() time.Duration {
	return GetEnvDuration(httpTimeoutVar, 30*time.Second)
}

func resolveURL(override, envVar, defaultValue string) string {
	url := override
	if url == "" {
		url = GetEnv(envVar, defaultValue)
	}
	return strings.TrimRight(url, "/")
}
