package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/the-abed/event-flow-server/internal/domain"
	"github.com/the-abed/event-flow-server/internal/repository"
)

type EventUsecase struct {
	repo repository.EventRepository
	now  func() time.Time
}

func NewEventUsecase(repo repository.EventRepository) *EventUsecase {
	return &EventUsecase{repo: repo, now: time.Now}
}

type CreateEventInput struct {
	OwnerID     string
	Title       string
	Description string
	Date        time.Time
	Location    string
	Image       *string
}

func (u *EventUsecase) CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	if input.OwnerID == "" || input.Title == "" || input.Description == "" ||
		input.Location == "" || input.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if input.Image != nil && *input.Image == "" {
		input.Image = nil
	}

	created, err := u.repo.Create(ctx, &domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date.UTC(),
		Location:    input.Location,
		Image:       input.Image,
		OwnerID:     input.OwnerID,
		CreatedAt:   u.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

func (u *EventUsecase) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	events, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListOwnedEvents returns the events created by ownerID, newest first.
func (u *EventUsecase) ListOwnedEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	events, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owned events: %w", err)
	}
	return events, nil
}

func (u *EventUsecase) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}
