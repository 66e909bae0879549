package analysisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/go-redis/redis/v8"
)

// RedisQueue is a ready list plus a sorted set of delayed jobs keyed by due time
type RedisQueue struct {
	client  *redis.Client
	ready   string
	delayed string
}

// NewRedisQueue creates a queue stored under name and name:delayed
func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	return &RedisQueue{
		client:  client,
		ready:   name,
		delayed: name + ":delayed",
	}
}

var _ analysis.JobQueue = (*RedisQueue)(nil)

// Enqueue adds a job to the ready list
func (q *RedisQueue) Enqueue(ctx context.Context, jobID kernel.JobID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", jobID, err)
	}

	if err := q.client.LPush(ctx, q.ready, data).Err(); err != nil {
		return fmt.Errorf("enqueue job %s: %w", jobID, err)
	}
	return nil
}

// Dequeue blocks up to timeout. It returns nil, nil when nothing arrived.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	result, err := q.client.BRPop(ctx, timeout, q.ready).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue job: %w", err)
	}

	// BRPOP replies with [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d elements", len(result))
	}
	return []byte(result[1]), nil
}

// EnqueueDelayed schedules a job to become ready after delay
func (q *RedisQueue) EnqueueDelayed(ctx context.Context, jobID kernel.JobID, payload any, delay time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal delayed job %s: %w", jobID, err)
	}

	due := float64(time.Now().Add(delay).UnixMilli())
	if err := q.client.ZAdd(ctx, q.delayed, &redis.Z{Score: due, Member: data}).Err(); err != nil {
		return fmt.Errorf("schedule job %s: %w", jobID, err)
	}
	return nil
}

// MoveDelayedToReady pushes every due job onto the ready list.
// A job is only pushed by the caller that removed it from the delayed set,
// so concurrent movers never duplicate work.
func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)

	due, err := q.client.ZRangeByScore(ctx, q.delayed, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("read delayed jobs: %w", err)
	}

	moved := 0
	for _, job := range due {
		removed, err := q.client.ZRem(ctx, q.delayed, job).Result()
		if err != nil {
			return moved, fmt.Errorf("claim delayed job: %w", err)
		}
		if removed == 0 {
			continue
		}
		if err := q.client.LPush(ctx, q.ready, job).Err(); err != nil {
			return moved, fmt.Errorf("release delayed job: %w", err)
		}
		moved++
	}
	return moved, nil
}

// GetQueueSize returns the number of ready jobs
func (q *RedisQueue) GetQueueSize(ctx context.Context) (int64, error) {
	size, err := q.client.LLen(ctx, q.ready).Result()
	if err != nil {
		return 0, fmt.Errorf("get queue size: %w", err)
	}
	return size, nil
}

// GetDelayedQueueSize returns the number of scheduled retries
func (q *RedisQueue) GetDelayedQueueSize(ctx context.Context) (int64, error) {
	size, err := q.client.ZCard(ctx, q.delayed).Result()
	if err != nil {
		return 0, fmt.Errorf("get delayed queue size: %w", err)
	}
	return size, nil
}

// Ping checks the Redis connection
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
