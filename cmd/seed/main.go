// seed creates a demo user and a handful of events in the configured store.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/the-abed/event-flow-server/internal/domain"
	"github.com/the-abed/event-flow-server/internal/infrastructure/store"
	"github.com/the-abed/event-flow-server/internal/password"
	"github.com/the-abed/event-flow-server/internal/usecase"
)

const (
	seedName     = "Seed User"
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
)

type eventSpec struct {
	title       string
	description string
	daysAhead   int
	location    string
}

var events = []eventSpec{
	{"Go Meetup", "Monthly gophers meetup with two lightning talks.", 7, "Berlin"},
	{"Cloud Native Day", "Talks on Kubernetes operators and service meshes.", 14, "Amsterdam"},
	{"Database Night", "Postgres internals and MongoDB schema design.", 21, "Lisbon"},
	{"Frontend Jam", "Hands-on session building the event flow UI.", 28, "Remote"},
	{"Security Workshop", "Password storage, tokens and OAuth in practice.", 35, "Warsaw"},
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	driver := os.Getenv("STORE_DRIVER")
	if driver == "" {
		driver = store.DriverPostgres
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" && driver != store.DriverMemory {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}
	database := os.Getenv("MONGO_DATABASE")
	if database == "" {
		database = "eventflow"
	}

	db, err := store.Open(ctx, driver, dbURL, database)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer db.Close()

	user, created, err := ensureUser(ctx, db)
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}

	eventUsecase := usecase.NewEventUsecase(db.Events)
	var inserted, skipped int
	if created {
		for _, spec := range events {
			_, err := eventUsecase.CreateEvent(ctx, usecase.CreateEventInput{
				OwnerID:     user.ID,
				Title:       spec.title,
				Description: spec.description,
				Date:        time.Now().AddDate(0, 0, spec.daysAhead).Truncate(time.Hour),
				Location:    spec.location,
			})
			if err != nil {
				log.Fatalf("insert event %q: %v", spec.title, err)
			}
			inserted++
		}
	} else {
		skipped = len(events)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Store:          %s\n", db.Driver)
	fmt.Printf("  User:           %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:        %s\n", user.ID)
	fmt.Printf("  Events created: %d  (skipped %d, user already seeded)\n", inserted, skipped)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: log in as the seed user:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2: list the seed user's events:")
	fmt.Println()
	fmt.Println("    export TOKEN=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/events/my-events -H \"Authorization: Bearer $TOKEN\"")
}

// ensureUser returns the seed user, creating it on first run.
func ensureUser(ctx context.Context, db *store.Store) (*domain.User, bool, error) {
	existing, err := db.Users.FindByEmail(ctx, seedEmail)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := password.NewHasher().Hash(seedPassword)
	if err != nil {
		return nil, false, err
	}
	user, err := db.Users.Create(ctx, &domain.User{
		Name:         seedName,
		Email:        seedEmail,
		PasswordHash: &hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
