package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/estatehub/estate-service/internal/config"
	"github.com/estatehub/estate-service/internal/events"
	"github.com/estatehub/estate-service/internal/notify"
	"github.com/estatehub/estate-service/internal/observability"
)

// NotificationService forwards domain events to the owning agent.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  notify.Publisher
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, publisher notify.Publisher, metrics *observability.Metrics, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventPropertyCreated,
		events.EventPropertyDeleted,
		events.EventInquiryCreated,
		events.EventInquiryStatusChanged,
		events.EventAppointmentCreated,
		events.EventAppointmentStatusChanged,
	} {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

// handle never returns an error: a failed notification must not fail the request.
func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("resource_id", event.ResourceID),
		zap.String("agent_id", event.AgentID))

	if n.publisher == nil || event.AgentID == "" {
		n.metrics.RecordNotification(string(event.Type), "skipped")
		return nil
	}

	timeout := n.cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	err := n.publisher.Publish(pubCtx, notify.Notification{
		ID:         event.ID,
		Event:      string(event.Type),
		AgentID:    event.AgentID,
		ResourceID: event.ResourceID,
		OccurredAt: event.Timestamp,
		Payload:    event.Payload,
	})
	if err != nil {
		n.metrics.RecordNotification(string(event.Type), "failed")
		n.logger.Warn("notification publish failed",
			zap.String("event", string(event.Type)),
			zap.String("agent_id", event.AgentID),
			zap.Error(err))
		return nil
	}
	n.metrics.RecordNotification(string(event.Type), "sent")
	return nil
}
