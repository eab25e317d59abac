package events

import (
	"time"

	"github.com/spec-kit/circa-backend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated EventType = "user_created"
	EventUserUpdated EventType = "user_updated"
	EventUserDeleted EventType = "user_deleted"
	EventUserLogin   EventType = "user_login"
	EventAuthzDenied EventType = "authz_denied"
)

// Event represents an audit event emitted by services. Actor is the subject
// of the verified claims, empty for unauthenticated flows.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// UserUpdatedPayload payload.
type UserUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// UserLoginPayload payload.
type UserLoginPayload struct {
	Email string `json:"email"`
}

// AuthzDeniedPayload records the denied operation and the evaluated rule.
type AuthzDeniedPayload struct {
	Operation string      `json:"operation"`
	Role      domain.Role `json:"role"`
	Reason    string      `json:"reason"`
}
