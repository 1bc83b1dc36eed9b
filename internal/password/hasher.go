// Package password hashes and verifies user secrets with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// Cost is the bcrypt work factor used for every new hash.
	Cost = 10
	// MaxLength is the longest secret bcrypt accepts, in bytes.
	MaxLength = 72
)

var (
	ErrMalformedHash = errors.New("password: malformed hash")
	ErrTooLong       = errors.New("password: longer than 72 bytes")
)

type Hasher struct {
	cost int
}

func NewHasher() *Hasher {
	return &Hasher{cost: Cost}
}

// Hash returns a salted bcrypt hash. bcrypt draws a fresh salt on every call,
// so hashing the same secret twice yields different strings.
func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) > MaxLength {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrTooLong
	}
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash. A mismatch is not an error;
// only a hash that bcrypt cannot parse is. Secrets longer than MaxLength
// never match, since Hash refuses to produce a hash for them.
func (h *Hasher) Verify(plain, hash string) (bool, error) {
	if len(plain) > MaxLength {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
