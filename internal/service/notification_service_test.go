package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/estatehub/estate-service/internal/config"
	"github.com/estatehub/estate-service/internal/events"
	"github.com/estatehub/estate-service/internal/notify"
)

type capturePublisher struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (p *capturePublisher) Publish(ctx context.Context, n notify.Notification) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, n)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func TestNotificationService_ForwardsToOwningAgent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &capturePublisher{}
	svc := NewNotificationService(dispatcher, pub, nil, zap.NewNop(), config.NotificationConfig{PublishTimeout: time.Second})
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:         "evt-1",
		Type:       events.EventInquiryCreated,
		ResourceID: "inq-1",
		AgentID:    "agent-1",
		Timestamp:  time.Now(),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(pub.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(pub.sent))
	}
	got := pub.sent[0]
	if got.AgentID != "agent-1" || got.Event != "inquiry_created" || got.ResourceID != "inq-1" {
		t.Fatalf("unexpected notification: %+v", got)
	}

	// no owning agent: nothing to deliver
	_ = dispatcher.Publish(context.Background(), events.Event{Type: events.EventPropertyDeleted, ResourceID: "p"})
	if len(pub.sent) != 1 {
		t.Fatalf("event without agent should be skipped")
	}
}

func TestNotificationService_PublishFailureDoesNotPropagate(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &capturePublisher{err: errors.New("broker down")}
	svc := NewNotificationService(dispatcher, pub, nil, zap.NewNop(), config.NotificationConfig{})
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventAppointmentCreated,
		AgentID: "agent-1",
	})
	if err != nil {
		t.Fatalf("publish failure leaked to caller: %v", err)
	}
}
