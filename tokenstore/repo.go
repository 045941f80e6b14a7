package tokenstore

import (
	"context"

	"github.com/jrsteele09/go-auth-client/internal/errors"
)

// ErrStorage wraps every read, write or clear failure of a Store.
var ErrStorage = errors.ErrStorage

// StoredCredentials is the persisted session material.
type StoredCredentials struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"` // Optional, empty when the server issued none
}

// HasAccessToken reports whether the credentials describe a session.
func (c StoredCredentials) HasAccessToken() bool {
	return c.AccessToken != ""
}

// Store persists the access and refresh tokens.
// Implementations never validate token content. Only the session controller
// should hold a Store; other components read session state from the controller.
type Store interface {
	// Save writes both values so that a reader never observes only one of them
	Save(ctx context.Context, creds StoredCredentials) error

	// Read returns the stored credentials, with found=false when no access token is stored
	Read(ctx context.Context) (creds StoredCredentials, found bool, err error)

	// Clear removes both values. Clearing an empty store succeeds.
	Clear(ctx context.Context) error
}
