package repository

import (
	"context"

	"github.com/the-abed/event-flow-server/internal/domain"
)

// UserRepository is the credential store. It performs no hashing or validation.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create inserts the user and returns it with its store-assigned ID.
	// Returns domain.ErrDuplicateEmail when the store's unique email constraint rejects it.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
