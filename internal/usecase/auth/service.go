// Package auth validates credentials locally, exchanges them for a session
// token and keeps the session in sync.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	authrepo "github.com/kailas-cloud/ocrdesk/internal/repository/auth"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// Validation messages.
const (
	MessageLoginFieldsMissing    = "Please fill in all fields"
	MessageRegisterFieldsMissing = "Please fill in all required fields"
	MessagePasswordMismatch      = "Passwords do not match"
	MessagePasswordTooShort      = "Password must be at least 6 characters long"
	MessageLoginFailed           = "Login failed"
	MessageRegisterFailed        = "Registration failed"
)

// ValidationError is a locally detected input problem. Nothing was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap makes ValidationError match domain.ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Registration is the sign-up form.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks required fields, password confirmation and length, in that order.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return &ValidationError{Message: MessageRegisterFieldsMissing}
	}
	if r.Password != r.ConfirmPassword {
		return &ValidationError{Message: MessagePasswordMismatch}
	}
	if len(r.Password) < MinPasswordLength {
		return &ValidationError{Message: MessagePasswordTooShort}
	}
	return nil
}

// Service handles login, registration and logout.
type Service struct {
	repo    Repository
	session Session
	logger  *zap.Logger
}

// New creates an auth service.
func New(repo Repository, session Session, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, session: session, logger: logger}
}

// Login validates the form, exchanges it for a token and stores the token.
func (s *Service) Login(ctx context.Context, email, password string) (authrepo.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return authrepo.User{}, &ValidationError{Message: MessageLoginFieldsMissing}
	}
	token, user, err := s.repo.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return authrepo.User{}, fmt.Errorf("login: %w", err)
	}
	if err := s.session.Set(ctx, token); err != nil {
		return authrepo.User{}, fmt.Errorf("login: %w", err)
	}
	s.logger.Info("logged in", zap.String("user_id", user.ID))
	return user, nil
}

// Register validates the form, creates the account and stores the token.
func (s *Service) Register(ctx context.Context, r Registration) (authrepo.User, error) {
	if err := r.Validate(); err != nil {
		return authrepo.User{}, err
	}
	token, user, err := s.repo.Register(ctx, strings.TrimSpace(r.Username), strings.TrimSpace(r.Email), r.Password)
	if err != nil {
		return authrepo.User{}, fmt.Errorf("register: %w", err)
	}
	if err := s.session.Set(ctx, token); err != nil {
		return authrepo.User{}, fmt.Errorf("register: %w", err)
	}
	s.logger.Info("registered", zap.String("user_id", user.ID))
	return user, nil
}

// Logout discards the credential.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me returns the current user.
func (s *Service) Me(ctx context.Context) (authrepo.User, error) {
	if !s.session.Authenticated() {
		return authrepo.User{}, domain.ErrUnauthorized
	}
	user, err := s.repo.Me(ctx)
	if err != nil {
		return authrepo.User{}, fmt.Errorf("me: %w", err)
	}
	return user, nil
}

// FailureMessage returns the text to show for a failed login or
// registration: the validation message, the server message, or fallback.
func FailureMessage(err error, fallback string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if msg, ok := domain.ServerMessage(err); ok {
		return msg
	}
	return fallback
}
