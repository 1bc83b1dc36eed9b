package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/the-abed/event-flow-server/internal/domain"
)

const (
	stateCookie       = "oauth_state"
	stateCookieMaxAge = 600
)

// GoogleProvider is the Google sign-in flow. A nil value disables it.
type GoogleProvider interface {
	StateToken() (string, error)
	AuthURL(state string) string
	Profile(ctx context.Context, code string) (domain.ProviderProfile, error)
}

type providerSigner interface {
	SignInWithProvider(ctx context.Context, profile domain.ProviderProfile) (string, error)
}

type OAuthHandler struct {
	google      GoogleProvider
	signer      providerSigner
	frontendURL string
	secure      bool
	logger      *slog.Logger
}

// NewOAuthHandler wires Google sign-in. google may be nil, in which case the
// login endpoint answers 503.
func NewOAuthHandler(google GoogleProvider, signer providerSigner, frontendURL string, secureCookies bool, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		google:      google,
		signer:      signer,
		frontendURL: frontendURL,
		secure:      secureCookies,
		logger:      logger.With("component", "oauth_handler"),
	}
}

// GET /api/auth/google
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": errOAuthUnavailable})
		return
	}

	state, err := h.google.StateToken()
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "generate oauth state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieMaxAge, "/api/auth/google", "", h.secure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL(state))
}

// GET /api/auth/google/callback
// Every failure sends the browser back to the frontend login page.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	if h.google == nil {
		h.failLogin(c)
		return
	}

	expected, err := c.Cookie(stateCookie)
	c.SetCookie(stateCookie, "", -1, "/api/auth/google", "", h.secure, true)
	if err != nil || expected == "" || c.Query("state") != expected {
		h.logger.WarnContext(ctx, "oauth state mismatch")
		h.failLogin(c)
		return
	}

	if providerErr := c.Query("error"); providerErr != "" {
		h.logger.InfoContext(ctx, "oauth denied by provider", "error", providerErr)
		h.failLogin(c)
		return
	}

	profile, err := h.google.Profile(ctx, c.Query("code"))
	if err != nil {
		h.logger.WarnContext(ctx, "oauth profile", "error", err)
		h.failLogin(c)
		return
	}

	signed, err := h.signer.SignInWithProvider(ctx, profile)
	if err != nil {
		h.logger.ErrorContext(ctx, "oauth sign in", "error", err)
		h.failLogin(c)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/?token="+url.QueryEscape(signed))
}

func (h *OAuthHandler) failLogin(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login")
}
