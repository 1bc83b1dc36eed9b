package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/the-abed/event-flow-server/internal/domain"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

var (
	ErrUnverifiedEmail = errors.New("provider email is not verified")
	ErrMissingCode     = errors.New("authorization code is missing")
)

type Google struct {
	conf        *oauth2.Config
	userInfoURL string
}

type Option func(*Google)

// WithEndpoint points the flow at a different authorization server.
func WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) Option {
	return func(g *Google) {
		g.conf.Endpoint = endpoint
		g.userInfoURL = userInfoURL
	}
}

func NewGoogle(clientID, clientSecret, callbackURL string, opts ...Option) *Google {
	g := &Google{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// StateToken returns a random value to round-trip through the provider.
func (g *Google) StateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (g *Google) AuthURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Profile exchanges the authorization code and fetches the signed-in
// account. Accounts whose email Google has not verified are rejected.
func (g *Google) Profile(ctx context.Context, code string) (domain.ProviderProfile, error) {
	if code == "" {
		return domain.ProviderProfile{}, ErrMissingCode
	}

	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := g.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ProviderProfile{}, fmt.Errorf("fetch userinfo: unexpected status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" || info.Email == "" {
		return domain.ProviderProfile{}, errors.New("userinfo is missing subject or email")
	}
	if !info.EmailVerified {
		return domain.ProviderProfile{}, ErrUnverifiedEmail
	}

	return domain.ProviderProfile{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
	}, nil
}
