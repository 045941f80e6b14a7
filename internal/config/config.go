package config

import (
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	EndpointConfig
	PlanConfig
	StorageConfig
	OAuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetLogFormat() string
}

type mainConfig struct {
	EnvVars
	*Endpoints
	Plan
	*Storage
	OAuth
}

// Option overrides a value that would otherwise come from the environment.
type Option func(*mainConfig)

func WithAPIBaseURL(url string) Option {
	return func(c *mainConfig) {
		c.Endpoints.apiBaseURL = url
	}
}

func WithAuthBaseURL(url string) Option {
	return func(c *mainConfig) {
		c.Endpoints.authBaseURL = url
	}
}

func WithFeedBaseURL(url string) Option {
	return func(c *mainConfig) {
		c.Endpoints.feedBaseURL = url
	}
}

func WithTokenStorePath(path string) Option {
	return func(c *mainConfig) {
		c.Storage.path = path
	}
}

func New(options ...Option) Config {
	c := mainConfig{
		Endpoints: &Endpoints{},
		Storage:   &Storage{},
	}
	for _, opt := range options {
		opt(&c)
	}
	return c
}

// LoadDotEnv loads .env files into the process environment if they exist.
// Values already present in the environment win.
func LoadDotEnv(files ...string) {
	// best-effort: a missing .env is the normal case
	_ = godotenv.Load(files...)
}
