package config

import "strings"

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetScopes() []string
	GetTokenPath() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetClientID defaults to empty; the auth server accepts a blank client.
func (OAuth) GetClientID() string {
	return GetEnv("OAUTH_CLIENT_ID", "")
}

func (OAuth) GetClientSecret() string {
	return GetEnv("OAUTH_CLIENT_SECRET", "")
}

func (OAuth) GetScopes() []string {
	return strings.Fields(GetEnv("OAUTH_SCOPE", ""))
}

func (OAuth) GetTokenPath() string {
	return GetEnv("OAUTH_TOKEN_PATH", "/auth/login")
}
