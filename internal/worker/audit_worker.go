package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/jewelry-store/internal/events"
)

var auditedEvents = []events.EventType{
	events.EventUserRegistered,
	events.EventUserLoggedIn,
	events.EventUserLoggedOut,
	events.EventProductCreated,
	events.EventProductUpdated,
	events.EventProductDeleted,
}

// StartAuditWorker subscribes a structured-log audit trail to all domain events.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	for _, eventType := range auditedEvents {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			audit.Info("domain event",
				zap.String("event_id", event.ID),
				zap.String("type", string(event.Type)),
				zap.Time("timestamp", event.Timestamp),
				zap.Any("payload", event.Payload),
			)
			return nil
		})
	}
}
