package repository

import (
	"context"

	"github.com/the-abed/event-flow-server/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	// GetByID returns domain.ErrEventNotFound for unknown or malformed IDs.
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// List returns every event, newest first.
	List(ctx context.Context) ([]*domain.Event, error)
	// ListByOwner returns the owner's events, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error)
}
