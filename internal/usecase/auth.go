package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/the-abed/event-flow-server/internal/domain"
	"github.com/the-abed/event-flow-server/internal/email"
	"github.com/the-abed/event-flow-server/internal/metrics"
	"github.com/the-abed/event-flow-server/internal/password"
	"github.com/the-abed/event-flow-server/internal/repository"
	"github.com/the-abed/event-flow-server/internal/token"
)

// welcomeEmailTimeout bounds how long registration waits on the email provider.
const welcomeEmailTimeout = 5 * time.Second

type passwordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) (bool, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher passwordHasher
	tokens token.Issuer
	email  email.Sender
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher passwordHasher,
	tokens token.Issuer,
	emailSender email.Sender,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		email:  emailSender,
		logger: logger.With("component", "auth_usecase"),
		now:    time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a password account and returns its ID. It does not log the
// user in. The existence check is only a fast path: the store's unique email
// constraint is what actually prevents duplicates.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (string, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return "", domain.ErrInvalidInput
	}
	if len(input.Password) > password.MaxLength {
		return "", domain.ErrPasswordTooLong
	}

	_, err := u.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		metrics.AuthOutcomesTotal.WithLabelValues("register", "conflict").Inc()
		return "", domain.ErrUserAlreadyExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("find user: %w", err)
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return "", domain.ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: &hash,
		CreatedAt:    u.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.AuthOutcomesTotal.WithLabelValues("register", "conflict").Inc()
			return "", domain.ErrUserAlreadyExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	metrics.AuthOutcomesTotal.WithLabelValues("register", "success").Inc()

	sendCtx, cancel := context.WithTimeout(ctx, welcomeEmailTimeout)
	defer cancel()
	if err := u.email.Send(sendCtx, email.Welcome(created.Name, created.Email)); err != nil {
		u.logger.WarnContext(ctx, "send welcome email", "user_id", created.ID, "error", err)
	}

	return created.ID, nil
}

// Login checks the password and returns a signed token. An unknown email and a
// wrong password are reported as different errors.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, secret string) (string, error) {
	if emailAddr == "" || secret == "" {
		return "", domain.ErrInvalidInput
	}

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthOutcomesTotal.WithLabelValues("login", "not_found").Inc()
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	// Accounts created through a provider have no password to check.
	if user.PasswordHash == nil {
		metrics.AuthOutcomesTotal.WithLabelValues("login", "invalid_credential").Inc()
		return "", domain.ErrInvalidCredential
	}

	ok, err := u.hasher.Verify(secret, *user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		metrics.AuthOutcomesTotal.WithLabelValues("login", "invalid_credential").Inc()
		return "", domain.ErrInvalidCredential
	}

	signed, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	metrics.AuthOutcomesTotal.WithLabelValues("login", "success").Inc()
	return signed, nil
}

// SignInWithProvider resolves a verified provider identity to a local user,
// creating a password-less account on first sign-in, and returns a token.
func (u *AuthUsecase) SignInWithProvider(ctx context.Context, profile domain.ProviderProfile) (string, error) {
	if profile.Subject == "" || profile.Email == "" {
		return "", domain.ErrInvalidInput
	}

	user, err := u.users.FindByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = u.createProviderUser(ctx, profile)
		if err != nil {
			return "", err
		}
	case err != nil:
		return "", fmt.Errorf("find user: %w", err)
	}

	signed, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	metrics.AuthOutcomesTotal.WithLabelValues("provider", "success").Inc()
	return signed, nil
}

func (u *AuthUsecase) createProviderUser(ctx context.Context, profile domain.ProviderProfile) (*domain.User, error) {
	name := profile.Name
	if name == "" {
		name = profile.Email
	}
	subject := profile.Subject

	created, err := u.users.Create(ctx, &domain.User{
		Name:       name,
		Email:      profile.Email,
		ExternalID: &subject,
		CreatedAt:  u.now().UTC(),
	})
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Lost a race with a concurrent first sign-in for the same email.
	existing, err := u.users.FindByEmail(ctx, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return existing, nil
}
