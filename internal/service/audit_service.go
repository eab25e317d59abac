package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/circa-backend/internal/events"
)

// AuditService writes structured audit entries for domain events, including
// the rule evaluated on every denied mutation.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserCreated, a.handle)
	a.dispatcher.Subscribe(events.EventUserUpdated, a.handle)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.handle)
	a.dispatcher.Subscribe(events.EventUserLogin, a.handle)
	a.dispatcher.Subscribe(events.EventAuthzDenied, a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("user_id", event.UserID),
		zap.String("actor", event.Actor),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}
