package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/the-abed/event-flow-server/internal/domain"
)

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 JWTs with a single shared secret.
type JWTIssuer struct {
	key []byte
	now func() time.Time
}

func NewJWTIssuer(secret []byte, opts ...Option) *JWTIssuer {
	s := newSettings(opts)
	return &JWTIssuer{key: secret, now: s.now}
}

func (i *JWTIssuer) Issue(userID, email string) (string, error) {
	now := i.now()
	claims := jwtClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Verify(raw string) (domain.Identity, error) {
	var claims jwtClaims
	token, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return i.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	if claims.Subject == "" || claims.Email == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return domain.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
