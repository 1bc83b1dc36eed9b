package token

import (
	"crypto/sha256"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/the-abed/event-flow-server/internal/domain"
)

// PasetoIssuer issues v4.local tokens (authenticated symmetric encryption).
// The key is the SHA-256 of the configured secret, which v4 requires to be 32 bytes.
type PasetoIssuer struct {
	key paseto.V4SymmetricKey
	now func() time.Time
}

func NewPasetoIssuer(secret []byte, opts ...Option) (*PasetoIssuer, error) {
	sum := sha256.Sum256(secret)
	key, err := paseto.V4SymmetricKeyFromBytes(sum[:])
	if err != nil {
		return nil, fmt.Errorf("paseto key: %w", err)
	}
	s := newSettings(opts)
	return &PasetoIssuer{key: key, now: s.now}, nil
}

func (i *PasetoIssuer) Issue(userID, email string) (string, error) {
	now := i.now()
	t := paseto.NewToken()
	t.SetIssuedAt(now)
	t.SetNotBefore(now)
	t.SetExpiration(now.Add(TTL))
	t.SetSubject(userID)
	t.SetString("email", email)
	return t.V4Encrypt(i.key, nil), nil
}

func (i *PasetoIssuer) Verify(raw string) (domain.Identity, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ValidAt(i.now()))

	t, err := parser.ParseV4Local(i.key, raw, nil)
	if err != nil {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	userID, err := t.GetSubject()
	if err != nil || userID == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	email, err := t.GetString("email")
	if err != nil || email == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return domain.Identity{UserID: userID, Email: email}, nil
}
