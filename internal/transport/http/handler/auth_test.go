package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/the-abed/event-flow-server/internal/domain"
	"github.com/the-abed/event-flow-server/internal/transport/http/handler"
	"github.com/the-abed/event-flow-server/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register func(ctx context.Context, input usecase.RegisterInput) (string, error)
	login    func(ctx context.Context, email, password string) (string, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (string, error) {
	return f.register(ctx, input)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	return f.login(ctx, email, password)
}

func newAuthEngine(uc *fakeAuthUsecase) *gin.Engine {
	h := handler.NewAuthHandler(uc, discard)

	r := gin.New()
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

// ---- Register ----

func TestRegister_Success_Returns201WithUserID(t *testing.T) {
	var got usecase.RegisterInput
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, in usecase.RegisterInput) (string, error) {
			got = in
			return "user-1", nil
		},
	}

	w := postJSON(newAuthEngine(uc), "/api/register", `{"name":"A","email":"a@x.com","password":"p1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	body := decodeBody(t, w)
	if body["userId"] != "user-1" || body["message"] != "User registered successfully" {
		t.Errorf("body = %v", body)
	}
	if got.Name != "A" || got.Email != "a@x.com" || got.Password != "p1" {
		t.Errorf("usecase input = %+v", got)
	}
	if _, ok := body["token"]; ok {
		t.Error("registration must not log the user in")
	}
}

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/register", `{bad json}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_MissingFields_Returns400WithoutCallingUsecase(t *testing.T) {
	bodies := map[string]string{
		"no name":      `{"email":"a@x.com","password":"p1"}`,
		"no email":     `{"name":"A","password":"p1"}`,
		"empty pass":   `{"name":"A","email":"a@x.com","password":""}`,
		"empty object": `{}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			uc := &fakeAuthUsecase{
				register: func(context.Context, usecase.RegisterInput) (string, error) {
					t.Fatal("usecase reached with a missing field")
					return "", nil
				},
			}

			w := postJSON(newAuthEngine(uc), "/api/register", body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if got := decodeBody(t, w)["message"]; got != "All fields are required" {
				t.Errorf("message = %v", got)
			}
		})
	}
}

func TestRegister_InvalidJSON_ReportsInvalidBody(t *testing.T) {
	w := postJSON(newAuthEngine(&fakeAuthUsecase{}), "/api/register", `{"name":`)

	if got := decodeBody(t, w)["message"]; got != "Invalid request body" {
		t.Errorf("message = %v", got)
	}
}

func TestRegister_UsecaseErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing fields", domain.ErrInvalidInput, http.StatusBadRequest, "All fields are required"},
		{"password too long", domain.ErrPasswordTooLong, http.StatusBadRequest, "Password must be at most 72 bytes"},
		{"already exists", domain.ErrUserAlreadyExists, http.StatusBadRequest, "User already exists"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeAuthUsecase{
				register: func(context.Context, usecase.RegisterInput) (string, error) { return "", tc.err },
			}

			w := postJSON(newAuthEngine(uc), "/api/register", `{"name":"A","email":"a@x.com","password":"p1"}`)

			if w.Code != tc.status {
				t.Errorf("status = %d, want %d", w.Code, tc.status)
			}
			body := decodeBody(t, w)
			if body["message"] != tc.message {
				t.Errorf("message = %v, want %q", body["message"], tc.message)
			}
			if strings.Contains(w.Body.String(), "connection reset") {
				t.Error("internal error detail leaked to client")
			}
		})
	}
}

// ---- Login ----

func TestLogin_Success_ReturnsToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, email, password string) (string, error) {
			if email != "a@x.com" || password != "p1" {
				t.Errorf("login(%q, %q)", email, password)
			}
			return "signed-token", nil
		},
	}

	w := postJSON(newAuthEngine(uc), "/api/login", `{"email":"a@x.com","password":"p1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["token"] != "signed-token" || body["message"] != "Login successful" {
		t.Errorf("body = %v", body)
	}
}

func TestLogin_MissingPassword_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(context.Context, string, string) (string, error) {
			t.Fatal("usecase reached with a missing field")
			return "", nil
		},
	}

	w := postJSON(newAuthEngine(uc), "/api/login", `{"email":"a@x.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if got := decodeBody(t, w)["message"]; got != "All fields are required" {
		t.Errorf("message = %v", got)
	}
}

func TestLogin_UsecaseErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", domain.ErrUserNotFound, http.StatusBadRequest, "User not found"},
		{"wrong password", domain.ErrInvalidCredential, http.StatusBadRequest, "Invalid password"},
		{"missing fields", domain.ErrInvalidInput, http.StatusBadRequest, "All fields are required"},
		{"store failure", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeAuthUsecase{
				login: func(context.Context, string, string) (string, error) { return "", tc.err },
			}

			w := postJSON(newAuthEngine(uc), "/api/login", `{"email":"a@x.com","password":"wrong"}`)

			if w.Code != tc.status {
				t.Errorf("status = %d, want %d", w.Code, tc.status)
			}
			body := decodeBody(t, w)
			if body["message"] != tc.message {
				t.Errorf("message = %v, want %q", body["message"], tc.message)
			}
			if _, ok := body["token"]; ok {
				t.Error("token issued on failure")
			}
		})
	}
}
