package roadmapinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/go-redis/redis/v8"
)

const shareKeyPrefix = "roadmap:share:"

// RedisShareTokenCache maps share tokens to roadmap IDs
type RedisShareTokenCache struct {
	client *redis.Client
}

func NewRedisShareTokenCache(client *redis.Client) *RedisShareTokenCache {
	return &RedisShareTokenCache{client: client}
}

var _ roadmap.ShareTokenCache = (*RedisShareTokenCache)(nil)

func (c *RedisShareTokenCache) Set(ctx context.Context, token string, id kernel.RoadmapID, ttl time.Duration) error {
	if err := c.client.Set(ctx, shareKeyPrefix+token, id.String(), ttl).Err(); err != nil {
		return fmt.Errorf("cache share token: %w", err)
	}
	return nil
}

func (c *RedisShareTokenCache) Get(ctx context.Context, token string) (kernel.RoadmapID, bool, error) {
	val, err := c.client.Get(ctx, shareKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read share token: %w", err)
	}
	return kernel.NewRoadmapID(val), true, nil
}

func (c *RedisShareTokenCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, shareKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("evict share token: %w", err)
	}
	return nil
}
