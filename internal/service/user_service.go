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
	"github.com/spec-kit/circa-backend/internal/observability"
	"github.com/spec-kit/circa-backend/internal/repository"
	apperrors "github.com/spec-kit/circa-backend/pkg/util"
)

// CreateUserInput carries validated fields for a new directory record.
type CreateUserInput struct {
	Name    string
	Surname string
	Email   string
	Phone   string
	Role    domain.Role
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Name    *string
	Surname *string
	Email   *string
	Phone   *string
	Role    *domain.Role
	Status  *domain.UserStatus
}

// UserService mediates between handlers and the directory. It converts
// empty lookups into NotFound and consults the authorization policy before
// every mutation.
type UserService struct {
	repo       repository.UserRepository
	policy     *auth.Policy
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// NewUserService builds the service.
func NewUserService(repo repository.UserRepository, policy *auth.Policy, dispatcher events.Dispatcher, metrics *observability.Metrics) *UserService {
	return &UserService{repo: repo, policy: policy, dispatcher: dispatcher, metrics: metrics}
}

// List returns all directory records.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Get returns a single record, or NotFound.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// Create stores a new record with status defaulted to active. Duplicate
// emails are rejected before touching the insert path.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user := &domain.User{
		Name:    input.Name,
		Surname: input.Surname,
		Email:   input.Email,
		Phone:   input.Phone,
		Role:    input.Role,
		Status:  domain.UserStatusActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserCreated,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload:   events.UserCreatedPayload{Email: user.Email, Role: user.Role},
	})

	return user, nil
}

// Update applies a partial update after the policy permits it. The policy
// runs before the existence check so a denied caller learns nothing about
// the target.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput, claims *auth.Claims) (*domain.User, error) {
	if err := s.authorize(ctx, claims, id, auth.OpUpdate); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, 6)
	if input.Name != nil {
		user.Name = *input.Name
		fields = append(fields, "name")
	}
	if input.Surname != nil {
		user.Surname = *input.Surname
		fields = append(fields, "surname")
	}
	if input.Email != nil {
		user.Email = *input.Email
		fields = append(fields, "email")
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
		fields = append(fields, "phone")
	}
	if input.Role != nil {
		user.Role = *input.Role
		fields = append(fields, "role")
	}
	if input.Status != nil {
		user.Status = *input.Status
		fields = append(fields, "status")
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserUpdated,
		UserID:    user.ID,
		Actor:     claims.Subject,
		Timestamp: time.Now(),
		Payload:   events.UserUpdatedPayload{Fields: fields},
	})

	return user, nil
}

// Delete removes a record after the policy permits it.
func (s *UserService) Delete(ctx context.Context, id string, claims *auth.Claims) error {
	if err := s.authorize(ctx, claims, id, auth.OpDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserDeleted,
		UserID:    id,
		Actor:     claims.Subject,
		Timestamp: time.Now(),
	})

	return nil
}

// authorize consults the policy; a denial surfaces to the caller as a bare
// forbidden while the evaluated rule goes to the audit stream.
func (s *UserService) authorize(ctx context.Context, claims *auth.Claims, targetID string, op auth.Operation) error {
	decision := s.policy.Authorize(claims, targetID, op)
	s.metrics.RecordAuthzDecision(string(op), decision.Allowed)
	if decision.Allowed {
		return nil
	}

	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAuthzDenied,
		UserID:    targetID,
		Timestamp: time.Now(),
		Payload:   events.AuthzDeniedPayload{Operation: string(op), Reason: decision.Reason},
	}
	if claims != nil {
		event.Actor = claims.Subject
		event.Payload = events.AuthzDeniedPayload{Operation: string(op), Role: claims.Role, Reason: decision.Reason}
	}
	s.publish(ctx, event)

	return apperrors.NewForbidden("forbidden")
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
