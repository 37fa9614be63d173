package notify

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/estatehub/estate-service/internal/config"
)

func TestNew_SelectsTransport(t *testing.T) {
	logger := zap.NewNop()

	p, err := New(config.NotificationConfig{Transport: "none"}, nil, logger)
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := p.(*LogPublisher); !ok {
		t.Fatalf("expected LogPublisher, got %T", p)
	}
	if err := p.Publish(context.Background(), Notification{Event: "inquiry_created"}); err != nil {
		t.Fatalf("log publish: %v", err)
	}

	if _, err := New(config.NotificationConfig{Transport: "redis"}, nil, logger); err == nil {
		t.Fatalf("expected error for redis transport without client")
	}

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	p, err = New(config.NotificationConfig{Transport: "redis", RedisPrefix: "estate:notifications"}, client, logger)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	rp, ok := p.(*RedisPublisher)
	if !ok {
		t.Fatalf("expected RedisPublisher, got %T", p)
	}
	if got := rp.Channel("agent-1"); got != "estate:notifications:agent:agent-1" {
		t.Fatalf("unexpected channel %q", got)
	}

	if _, err := New(config.NotificationConfig{Transport: "carrier-pigeon"}, nil, logger); err == nil {
		t.Fatalf("expected error for unknown transport")
	}
}

func TestRoutingKey(t *testing.T) {
	if got := RoutingKey("appointment_created"); got != "agent.appointment_created" {
		t.Fatalf("unexpected routing key %q", got)
	}
}
