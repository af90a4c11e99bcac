// file: internal/services/audit_service.go
package services

import (
	"context"

	"sprintdeck/internal/events"
	"sprintdeck/internal/models"
	"sprintdeck/internal/repositories"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// auditService implements AuditService. SubscribeTo wires it to the event bus
// so every published entity mutation lands in the audit log.
type auditService struct {
	audit  repositories.AuditRepository
	logger *zap.Logger
}

// NewAuditService creates the audit service
func NewAuditService(audit repositories.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{audit: audit, logger: logger}
}

func (s *auditService) Record(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return NewInternalError("failed to generate audit id", err)
		}
		entry.ID = id.String()
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		return NewInternalError("failed to record audit entry", err)
	}
	return nil
}

func (s *auditService) List(ctx context.Context, filter AuditListFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.AuditEntry], error) {
	result, err := s.audit.List(ctx, filter.EntityType, params)
	if err != nil {
		return nil, NewInternalError("failed to list audit entries", err)
	}
	return result, nil
}

// SubscribeTo registers a wildcard handler that persists every event. Audit
// failures are logged and swallowed so they never break the publishing path.
func SubscribeTo(bus events.EventBus, audit AuditService, logger *zap.Logger) {
	bus.Subscribe(events.WildcardType, func(ctx context.Context, event events.Event) error {
		entry := &models.AuditEntry{
			ID:       event.GetEventID(),
			ActorID:  event.GetUserID(),
			Action:   event.GetEventType(),
			Metadata: event.GetMetadata(),
		}
		if ee, ok := event.(*events.EntityEvent); ok {
			entry.EntityType = ee.EntityType
			entry.EntityID = ee.EntityID
		} else {
			entry.EntityType = "achievement"
		}

		if err := audit.Record(ctx, entry); err != nil {
			logger.Error("Failed to audit event",
				zap.String("event_type", event.GetEventType()),
				zap.Error(err),
			)
		}
		return nil
	})
}
