// Package memory is a process-local store for local development and tests.
// Data is lost on restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/the-abed/event-flow-server/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]*domain.User // by ID
	byEmail map[string]string       // email -> user ID
	events  []*domain.Event         // insertion order
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Events() *EventRepository { return &EventRepository{s: s} }

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byEmail[user.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}

	u := *user
	u.ID = uuid.NewString()
	r.s.users[u.ID] = &u
	r.s.byEmail[u.Email] = u.ID

	out := u
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *r.s.users[id]
	return &u, nil
}

type EventRepository struct {
	s *Store
}

func (r *EventRepository) Create(_ context.Context, event *domain.Event) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e := *event
	e.ID = uuid.NewString()
	r.s.events = append(r.s.events, &e)

	out := e
	return &out, nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.events {
		if e.ID == id {
			out := *e
			return &out, nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func (r *EventRepository) List(context.Context) ([]*domain.Event, error) {
	return r.filter(func(*domain.Event) bool { return true }), nil
}

func (r *EventRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Event, error) {
	return r.filter(func(e *domain.Event) bool { return e.OwnerID == ownerID }), nil
}

// filter returns copies of the matching events, newest first.
func (r *EventRepository) filter(keep func(*domain.Event) bool) []*domain.Event {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Event, 0)
	for _, e := range slices.Backward(r.s.events) {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}
