package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid password")
	ErrTokenInvalid      = errors.New("token is invalid or expired")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrPasswordTooLong is an ErrInvalidInput: bcrypt only reads 72 bytes.
	ErrPasswordTooLong = fmt.Errorf("%w: password longer than 72 bytes", ErrInvalidInput)
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string // nil for identities created through a provider
	ExternalID   *string // provider subject, e.g. Google "sub"
	CreatedAt    time.Time
}

// Identity is what a verified token asserts about its bearer.
type Identity struct {
	UserID string
	Email  string
}

// ProviderProfile is a verified identity assertion from a third-party provider.
type ProviderProfile struct {
	Subject string
	Email   string
	Name    string
}
