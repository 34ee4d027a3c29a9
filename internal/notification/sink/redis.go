package sink

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/clubhouse/internal/notification/domain"
)

// Redis publishes each notification as JSON on one pub/sub channel.
type Redis struct {
	client  *redis.Client
	channel string
}

func NewRedis(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, channel: channel}
}

func (s *Redis) Name() string { return "redis" }

func (s *Redis) Notify(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, payload).Err()
}
