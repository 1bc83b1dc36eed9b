// Package token issues and verifies the signed, time-bounded identity tokens
// handed to clients at login. Tokens are self-contained: nothing is stored
// server-side and a token stays valid until it expires.
package token

import (
	"fmt"
	"time"

	"github.com/the-abed/event-flow-server/internal/domain"
)

// TTL is how long an issued token stays valid.
const TTL = 7 * 24 * time.Hour

const (
	FormatJWT    = "jwt"
	FormatPaseto = "paseto"
)

// Issuer signs identity tokens and verifies them. Verify reports every
// failure (malformed, tampered, expired) as domain.ErrTokenInvalid.
type Issuer interface {
	Issue(userID, email string) (string, error)
	Verify(raw string) (domain.Identity, error)
}

type settings struct {
	now func() time.Time
}

type Option func(*settings)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewIssuer returns the issuer for the configured token format.
func NewIssuer(format string, secret []byte, opts ...Option) (Issuer, error) {
	switch format {
	case FormatJWT, "":
		return NewJWTIssuer(secret, opts...), nil
	case FormatPaseto:
		return NewPasetoIssuer(secret, opts...)
	default:
		return nil, fmt.Errorf("unknown token format %q", format)
	}
}
