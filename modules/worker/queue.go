package worker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	redisutil "wall-panel-server/modules/common/redis"
)

// Queue - Redis List 기반 Job 큐 (LPUSH / BRPOP)
type Queue struct {
	rdb *redis.Client
	key string
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb, key: redisutil.QueueKey}
}

func (q *Queue) Key() string {
	return q.key
}

// Push enqueues jobID and returns the queue length after the push.
func (q *Queue) Push(ctx context.Context, jobID string) (int64, error) {
	n, err := q.rdb.LPush(ctx, q.key, jobID).Result()
	if err != nil {
		return 0, fmt.Errorf("redis LPUSH failed: %w", err)
	}
	return n, nil
}

// Pop blocks until a job id is available or ctx is done.
func (q *Queue) Pop(ctx context.Context) (string, error) {
	// result[0]은 queue key, result[1]이 실제 job_id
	result, err := q.rdb.BRPop(ctx, 0, q.key).Result()
	if err != nil {
		return "", err
	}
	if len(result) != 2 {
		return "", fmt.Errorf("unexpected BRPOP reply: %v", result)
	}
	return result[1], nil
}
