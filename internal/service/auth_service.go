package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/circa-backend/internal/auth"
	"github.com/spec-kit/circa-backend/internal/domain"
	"github.com/spec-kit/circa-backend/internal/events"
	"github.com/spec-kit/circa-backend/internal/repository"
	apperrors "github.com/spec-kit/circa-backend/pkg/util"
)

// AuthService coordinates the login flow: directory lookup, token minting.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{users: users, tokens: tokens, dispatcher: dispatcher}
}

// Login resolves the email against the directory and mints a token bound to
// the stored user id. An unknown email is an authentication failure, not a
// missing resource.
func (s *AuthService) Login(ctx context.Context, email string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("unknown email")
		}
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.tokens.Mint(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserLogin,
		UserID:    user.ID,
		Actor:     user.ID,
		Timestamp: time.Now(),
		Payload:   events.UserLoginPayload{Email: user.Email},
	})

	return user, token, expiresAt, nil
}

// Logout no-ops for the stateless token approach.
func (s *AuthService) Logout(_ context.Context, _ *auth.Claims) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
