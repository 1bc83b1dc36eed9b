package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/the-abed/event-flow-server/internal/domain"
	"github.com/the-abed/event-flow-server/internal/token"
	"github.com/the-abed/event-flow-server/internal/transport/http/handler"
	"github.com/the-abed/event-flow-server/internal/transport/http/middleware"
	"github.com/the-abed/event-flow-server/internal/usecase"
)

const testKey = "handler-test-secret-at-least-32-chars"

type fakeEventUsecase struct {
	createEvent     func(ctx context.Context, input usecase.CreateEventInput) (*domain.Event, error)
	listEvents      func(ctx context.Context) ([]*domain.Event, error)
	listOwnedEvents func(ctx context.Context, ownerID string) ([]*domain.Event, error)
	getEvent        func(ctx context.Context, id string) (*domain.Event, error)
}

func (f *fakeEventUsecase) CreateEvent(ctx context.Context, input usecase.CreateEventInput) (*domain.Event, error) {
	return f.createEvent(ctx, input)
}

func (f *fakeEventUsecase) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return f.listEvents(ctx)
}

func (f *fakeEventUsecase) ListOwnedEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	return f.listOwnedEvents(ctx, ownerID)
}

func (f *fakeEventUsecase) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return f.getEvent(ctx, id)
}

var issuer = token.NewJWTIssuer([]byte(testKey))

func newEventEngine(uc *fakeEventUsecase) *gin.Engine {
	h := handler.NewEventHandler(uc, discard)
	auth := middleware.Auth(issuer)

	r := gin.New()
	r.POST("/api/events", auth, h.Create)
	r.GET("/api/events", h.List)
	r.GET("/api/events/my-events", auth, h.ListMine)
	r.GET("/api/events/:id", h.GetByID)
	return r
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	signed, err := issuer.Issue(userID, userID+"@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + signed
}

func doRequest(r *gin.Engine, method, path, auth, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func echoCreate(_ context.Context, in usecase.CreateEventInput) (*domain.Event, error) {
	return &domain.Event{
		ID:          "ev-1",
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		Image:       in.Image,
		OwnerID:     in.OwnerID,
	}, nil
}

// ---- Create ----

func TestCreateEvent_Success_OwnedByCaller(t *testing.T) {
	var got usecase.CreateEventInput
	uc := &fakeEventUsecase{
		createEvent: func(ctx context.Context, in usecase.CreateEventInput) (*domain.Event, error) {
			got = in
			return echoCreate(ctx, in)
		},
	}

	w := doRequest(newEventEngine(uc), http.MethodPost, "/api/events", bearer(t, "user-1"),
		`{"title":"Meetup","description":"Go","date":"2026-11-01T18:00","location":"Berlin"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if got.OwnerID != "user-1" {
		t.Errorf("owner = %q, want user-1", got.OwnerID)
	}
	if want := time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC); !got.Date.Equal(want) {
		t.Errorf("date = %v, want %v", got.Date, want)
	}

	var body struct {
		Message string `json:"message"`
		Event   struct {
			ID     string `json:"id"`
			UserID string `json:"userId"`
		} `json:"event"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Event created successfully" || body.Event.ID != "ev-1" || body.Event.UserID != "user-1" {
		t.Errorf("body = %+v", body)
	}
}

func TestCreateEvent_OwnerComesFromTokenNotBody(t *testing.T) {
	var got usecase.CreateEventInput
	uc := &fakeEventUsecase{
		createEvent: func(ctx context.Context, in usecase.CreateEventInput) (*domain.Event, error) {
			got = in
			return echoCreate(ctx, in)
		},
	}

	doRequest(newEventEngine(uc), http.MethodPost, "/api/events", bearer(t, "user-1"),
		`{"title":"T","description":"D","date":"2026-11-01","location":"L","userId":"someone-else"}`)

	if got.OwnerID != "user-1" {
		t.Errorf("owner = %q, want user-1", got.OwnerID)
	}
}

func TestCreateEvent_NoToken_Returns401(t *testing.T) {
	uc := &fakeEventUsecase{
		createEvent: func(context.Context, usecase.CreateEventInput) (*domain.Event, error) {
			t.Fatal("usecase reached without a token")
			return nil, nil
		},
	}

	w := doRequest(newEventEngine(uc), http.MethodPost, "/api/events", "",
		`{"title":"T","description":"D","date":"2026-11-01","location":"L"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCreateEvent_BadInput_Returns400(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"missing title", `{"description":"D","date":"2026-11-01","location":"L"}`, "All fields are required"},
		{"empty location", `{"title":"T","description":"D","date":"2026-11-01","location":""}`, "All fields are required"},
		{"missing date", `{"title":"T","description":"D","location":"L"}`, "All fields are required"},
		{"bad date", `{"title":"T","description":"D","date":"next tuesday","location":"L"}`, "Invalid date format"},
		{"invalid json", `{`, "Invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeEventUsecase{
				createEvent: func(context.Context, usecase.CreateEventInput) (*domain.Event, error) {
					t.Fatal("usecase reached with bad input")
					return nil, nil
				},
			}

			w := doRequest(newEventEngine(uc), http.MethodPost, "/api/events", bearer(t, "user-1"), tc.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if got := decodeBody(t, w)["message"]; got != tc.message {
				t.Errorf("message = %v, want %q", got, tc.message)
			}
		})
	}
}

// ---- List / ListMine / GetByID ----

func TestListEvents_EmptyIsJSONArray(t *testing.T) {
	uc := &fakeEventUsecase{
		listEvents: func(context.Context) ([]*domain.Event, error) { return []*domain.Event{}, nil },
	}

	w := doRequest(newEventEngine(uc), http.MethodGet, "/api/events", "", "")

	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestListEvents_StoreFailure_Returns500(t *testing.T) {
	uc := &fakeEventUsecase{
		listEvents: func(context.Context) ([]*domain.Event, error) { return nil, errors.New("boom") },
	}

	w := doRequest(newEventEngine(uc), http.MethodGet, "/api/events", "", "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestListMine_UsesCallerID(t *testing.T) {
	var owner string
	uc := &fakeEventUsecase{
		listOwnedEvents: func(_ context.Context, ownerID string) ([]*domain.Event, error) {
			owner = ownerID
			return []*domain.Event{{ID: "ev-1", OwnerID: ownerID}}, nil
		},
	}

	w := doRequest(newEventEngine(uc), http.MethodGet, "/api/events/my-events", bearer(t, "user-7"), "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if owner != "user-7" {
		t.Errorf("owner = %q, want user-7", owner)
	}
}

func TestListMine_NoToken_Returns401(t *testing.T) {
	w := doRequest(newEventEngine(&fakeEventUsecase{}), http.MethodGet, "/api/events/my-events", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestGetEvent_NotFound_Returns404(t *testing.T) {
	uc := &fakeEventUsecase{
		getEvent: func(context.Context, string) (*domain.Event, error) { return nil, domain.ErrEventNotFound },
	}

	w := doRequest(newEventEngine(uc), http.MethodGet, "/api/events/missing", "", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "Event not found" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestGetEvent_Found(t *testing.T) {
	uc := &fakeEventUsecase{
		getEvent: func(_ context.Context, id string) (*domain.Event, error) {
			return &domain.Event{ID: id, Title: "T"}, nil
		},
	}

	w := doRequest(newEventEngine(uc), http.MethodGet, "/api/events/ev-9", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := decodeBody(t, w); body["id"] != "ev-9" {
		t.Errorf("id = %v", body["id"])
	}
}
