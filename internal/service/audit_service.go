package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

const maxAuditHistory = 200

// AuditService publishes user-management events and records them.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	repo       repository.AuditRepository
}

// NewAuditService creates the service. repo may be nil, in which case the
// trail only goes to the log.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, repo repository.AuditRepository) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		repo:       repo,
	}
}

// Publish emits an audit event. Delivery problems are logged, never returned.
func (a *AuditService) Publish(ctx context.Context, eventType events.EventType, actorID, targetID string, payload map[string]any) {
	if a == nil || a.dispatcher == nil {
		return
	}
	event := events.NewEvent(eventType, actorID, targetID, payload)
	if err := a.dispatcher.Publish(ctx, event); err != nil {
		a.logger.Warn("publish audit event", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// Handle writes one event to the log and, when configured, the audit table.
func (a *AuditService) Handle(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("actor_id", event.ActorID),
		zap.String("target_id", event.TargetID),
		zap.Any("payload", event.Payload))

	if a.repo == nil {
		return nil
	}
	return a.repo.Append(ctx, &domain.AuditEntry{
		ID:        event.ID,
		Action:    domain.AuditAction(event.Type),
		ActorID:   event.ActorID,
		TargetID:  event.TargetID,
		Details:   event.Payload,
		CreatedAt: event.Timestamp,
	})
}

// History lists the most recent entries about a user, newest first.
func (a *AuditService) History(ctx context.Context, targetID string, limit int) ([]domain.AuditEntry, error) {
	if a.repo == nil {
		return []domain.AuditEntry{}, nil
	}
	if limit <= 0 || limit > maxAuditHistory {
		limit = maxAuditHistory
	}
	entries, err := a.repo.ListByTarget(ctx, targetID, limit)
	if err != nil {
		return nil, storeError(err, "Audit trail")
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}
