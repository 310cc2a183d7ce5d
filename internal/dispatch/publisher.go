package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_response_system/internal/models"
)

const (
	dispatchQueueKey = "dispatch_events"
)

// DispatchPublisher enqueues dispatch events for the log worker. Publishing
// is best-effort: callers log failures and carry on, a lost audit record
// must never fail the report it belongs to.
type DispatchPublisher interface {
	Publish(ctx context.Context, event models.DispatchEvent) error
}

// RedisDispatchPublisher is a DispatchPublisher backed by a Redis list.
type RedisDispatchPublisher struct {
	redisClient *redis.Client
}

// NewRedisDispatchPublisher creates a new RedisDispatchPublisher
func NewRedisDispatchPublisher(client *redis.Client) *RedisDispatchPublisher {
	return &RedisDispatchPublisher{
		redisClient: client,
	}
}

// Publish pushes a dispatch event onto the Redis queue
func (p *RedisDispatchPublisher) Publish(ctx context.Context, event models.DispatchEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch event: %w", err)
	}

	// LPUSH adds the event to the head of the list, the worker pops from the tail
	if err := p.redisClient.LPush(ctx, dispatchQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish dispatch event to Redis: %w", err)
	}
	return nil
}
