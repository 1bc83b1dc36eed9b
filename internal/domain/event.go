package domain

import (
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	Image       *string // nil means no image
	OwnerID     string  // ID of the user who created the event
	CreatedAt   time.Time
}
