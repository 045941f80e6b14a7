package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Identity describes the user a minted token represents.
type Identity struct {
	Subject     string
	Name        string
	Role        string
	PhoneNumber string
}

// Creator mints HS256 access tokens with the claim shape the auth server issues.
// It exists for local development and tests; production tokens come from the server.
type Creator struct {
	secret   []byte
	lifetime time.Duration
}

// NewCreator creates a new JWT creator
func NewCreator(secret []byte, lifetime time.Duration) *Creator {
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return &Creator{
		secret:   secret,
		lifetime: lifetime,
	}
}

// CreateAccessToken creates a signed access token for identity
func (c *Creator) CreateAccessToken(identity Identity) (*string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub": identity.Subject,                  // The subject, the user's phone or ID
		"iat": int64(now.Unix()),                 // Issued At: the time at which the token was issued
		"exp": int64(now.Add(c.lifetime).Unix()), // Expiry: informational for this client
		"jti": uuid.New().String(),               // Unique token ID
	}

	if identity.Name != "" {
		claims["name"] = identity.Name
	}
	if identity.Role != "" {
		claims["role"] = identity.Role
	}
	if identity.PhoneNumber != "" {
		claims["phone_number"] = identity.PhoneNumber
	}

	signedToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return &signedToken, nil
}
