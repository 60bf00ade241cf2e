package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OrderStatusCache is a read-through cache for storefront order-status
// polling. It is never consulted by webhook processing, only invalidated
// by it.
type OrderStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOrderStatusCache(client *redis.Client, ttl time.Duration) *OrderStatusCache {
	return &OrderStatusCache{client: client, ttl: ttl}
}

func key(ref string) string {
	return fmt.Sprintf("order_status:%s", ref)
}

func (c *OrderStatusCache) Get(ctx context.Context, ref string) (string, bool, error) {
	v, err := c.client.Get(ctx, key(ref)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *OrderStatusCache) Set(ctx context.Context, ref string, status string) error {
	return c.client.Set(ctx, key(ref), status, c.ttl).Err()
}

func (c *OrderStatusCache) Invalidate(ctx context.Context, ref string) error {
	return c.client.Del(ctx, key(ref)).Err()
}

// NoopCache satisfies the cache port when redis is not configured.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, ref string) (string, bool, error) { return "", false, nil }
func (NoopCache) Set(ctx context.Context, ref string, status string) error  { return nil }
func (NoopCache) Invalidate(ctx context.Context, ref string) error          { return nil }
