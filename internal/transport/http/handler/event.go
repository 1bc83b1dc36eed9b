package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/the-abed/event-flow-server/internal/domain"
	"github.com/the-abed/event-flow-server/internal/transport/http/middleware"
	"github.com/the-abed/event-flow-server/internal/usecase"
)

type eventUsecaser interface {
	CreateEvent(ctx context.Context, input usecase.CreateEventInput) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]*domain.Event, error)
	ListOwnedEvents(ctx context.Context, ownerID string) ([]*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
}

type EventHandler struct {
	eventUsecase eventUsecaser
	logger       *slog.Logger
}

func NewEventHandler(eventUsecase eventUsecaser, logger *slog.Logger) *EventHandler {
	return &EventHandler{eventUsecase: eventUsecase, logger: logger.With("component", "event_handler")}
}

// Browsers submit datetime-local and date inputs without a zone; those are
// read as UTC.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

type createEventRequest struct {
	Title       string  `json:"title"       binding:"required"`
	Description string  `json:"description" binding:"required"`
	Date        string  `json:"date"        binding:"required"`
	Location    string  `json:"location"    binding:"required"`
	Image       *string `json:"image"`
}

type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Image       *string   `json:"image,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toEventResponse(e *domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		Image:       e.Image,
		UserID:      e.OwnerID,
		CreatedAt:   e.CreatedAt,
	}
}

func toEventResponses(events []*domain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": errUnauthorized})
		return
	}

	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindError(err)})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": errInvalidDate})
		return
	}

	event, err := h.eventUsecase.CreateEvent(c.Request.Context(), usecase.CreateEventInput{
		OwnerID:     identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"message": errMissingFields})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create event", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully",
		"event":   toEventResponse(event),
	})
}

// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventUsecase.ListEvents(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toEventResponses(events))
}

// GET /api/events/my-events
func (h *EventHandler) ListMine(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": errUnauthorized})
		return
	}

	events, err := h.eventUsecase.ListOwnedEvents(c.Request.Context(), identity.UserID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list owned events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toEventResponses(events))
}

// GET /api/events/:id
func (h *EventHandler) GetByID(c *gin.Context) {
	eventID := c.Param("id")

	event, err := h.eventUsecase.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": errEventNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get event by id", "event_id", eventID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, toEventResponse(event))
}
