package token

import (
	"time"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/internal/utils"
)

// ErrDecode is returned when a stored token is empty, malformed or not a recognised encoding.
var ErrDecode = errors.ErrDecode

// Claims is the structured payload of a stored access token.
// Claims are derived from a specific token instance and are never persisted.
type Claims struct {
	Subject     string    // sub
	IssuedAt    time.Time // iat, zero when absent
	ExpiresAt   time.Time // exp, zero when absent
	Name        *string   // name
	Role        *string   // role
	PhoneNumber *string   // phone_number, drives the plan check
}

// Phone returns the phone number claim or "" when the claims or the claim are absent.
func (c *Claims) Phone() string {
	if c == nil {
		return ""
	}
	return utils.Value(c.PhoneNumber)
}

// Expired reports whether exp has passed. It is informational only: a decodable
// token is treated as a session regardless of exp.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}

// Decoder turns a raw access token into Claims.
type Decoder interface {
	Decode(rawToken string) (*Claims, error)
}
