package design

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wall-panel-server/modules/common/model"
	redisutil "wall-panel-server/modules/common/redis"
)

// RedisNotifier - 상태 이벤트를 Redis Pub/Sub 채널로 발행
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, channel: redisutil.StatusChannel}
}

func (n *RedisNotifier) Notify(ctx context.Context, event model.StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}
	if err := n.rdb.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}
	return nil
}
