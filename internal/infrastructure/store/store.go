// Package store opens the configured persistence backend and exposes it
// through the repository interfaces.
package store

import (
	"context"
	"fmt"

	"github.com/the-abed/event-flow-server/internal/infrastructure/memory"
	"github.com/the-abed/event-flow-server/internal/infrastructure/mongo"
	"github.com/the-abed/event-flow-server/internal/infrastructure/postgres"
	"github.com/the-abed/event-flow-server/internal/repository"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Store struct {
	Driver string
	Users  repository.UserRepository
	Events repository.EventRepository

	ping  func(ctx context.Context) error
	close func()
}

// Open connects to the backend and prepares its schema. It returns only once
// the backend has answered a ping; callers treat an error as fatal.
func Open(ctx context.Context, driver, url, database string) (*Store, error) {
	switch driver {
	case DriverPostgres:
		pool, err := postgres.NewPool(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Driver: driver,
			Users:  postgres.NewUserRepository(pool),
			Events: postgres.NewEventRepository(pool),
			ping:   pool.Ping,
			close:  pool.Close,
		}, nil

	case DriverMongo:
		s, err := mongo.Connect(ctx, url, database)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(context.Background())
			return nil, err
		}
		return &Store{
			Driver: driver,
			Users:  s.Users(),
			Events: s.Events(),
			ping:   s.Ping,
			close:  func() { _ = s.Close(context.Background()) },
		}, nil

	case DriverMemory:
		s := memory.NewStore()
		return &Store{
			Driver: driver,
			Users:  s.Users(),
			Events: s.Events(),
			ping:   s.Ping,
			close:  func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close() {
	s.close()
}
