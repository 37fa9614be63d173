// Package notify delivers agent notifications to an external transport.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/estatehub/estate-service/internal/config"
)

// Notification is the message delivered to an agent's channel.
type Notification struct {
	ID         string    `json:"id"`
	Event      string    `json:"event"`
	AgentID    string    `json:"agent_id"`
	ResourceID string    `json:"resource_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// Publisher sends notifications.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
	Close() error
}

// New selects the publisher named by cfg.Transport. redisClient is only
// required for the redis transport.
func New(cfg config.NotificationConfig, redisClient *redis.Client, logger *zap.Logger) (Publisher, error) {
	switch cfg.Transport {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("notify: redis transport requires a redis client")
		}
		return NewRedisPublisher(redisClient, cfg.RedisPrefix), nil
	case "amqp":
		return NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	case "none", "":
		return NewLogPublisher(logger), nil
	default:
		return nil, fmt.Errorf("notify: unknown transport %q", cfg.Transport)
	}
}

// RedisPublisher PUBLISHes each notification on the owning agent's channel.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisPublisher wraps an existing client; Close does not close it.
func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the pub/sub channel for an agent.
func (p *RedisPublisher) Channel(agentID string) string {
	return fmt.Sprintf("%s:agent:%s", p.prefix, agentID)
}

func (p *RedisPublisher) Publish(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.Channel(n.AgentID), body).Err()
}

func (p *RedisPublisher) Close() error { return nil }

// LogPublisher only records notifications in the log.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, n Notification) error {
	p.logger.Debug("notification",
		zap.String("event", n.Event),
		zap.String("agent_id", n.AgentID),
		zap.String("resource_id", n.ResourceID))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
