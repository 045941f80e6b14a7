package jwt

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/token"
)

// Decoder extracts claims from an access token without verifying it.
// The signature is not checked and exp is not enforced: the client trusts the
// issuer, and plan activity is the only server-side gate on a stored session.
type Decoder struct {
	parser *jwtlib.Parser
}

var _ token.Decoder = (*Decoder)(nil)

// NewDecoder creates a new unverified JWT decoder
func NewDecoder() *Decoder {
	return &Decoder{
		parser: jwtlib.NewParser(),
	}
}

// Decode parses rawToken and returns its claims, or an error wrapping token.ErrDecode.
func (d *Decoder) Decode(rawToken string) (*token.Claims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, errors.Wrapf(token.ErrDecode, "empty token")
	}

	parsed, _, err := d.parser.ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrapf(token.ErrDecode, "parse unverified: %v", err)
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrapf(token.ErrDecode, "error extracting claims")
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	phone, _ := claims["phone_number"].(string)

	return &token.Claims{
		Subject:     sub,
		IssuedAt:    numericTime(claims.GetIssuedAt()),
		ExpiresAt:   numericTime(claims.GetExpirationTime()),
		Name:        utils.NonBlank(name),
		Role:        utils.NonBlank(role),
		PhoneNumber: utils.NonBlank(phone),
	}, nil
}

// numericTime tolerates missing or mistyped time claims rather than rejecting the token.
func numericTime(date *jwtlib.NumericDate, err error) time.Time {
	if err != nil || date == nil {
		return time.Time{}
	}
	return date.Time
}
