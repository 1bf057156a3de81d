package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/jewelry-store/internal/domain"
)

// ProductCache is a Redis-backed read-through cache for single product lookups.
// A nil receiver or missing Redis client degrades to cache misses.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache wraps the shared Redis client.
func NewProductCache(r *Redis, ttl time.Duration) *ProductCache {
	if r == nil || r.Client == nil {
		return nil
	}
	return &ProductCache{client: r.Client, ttl: ttl}
}

func productKey(id string) string {
	return "product:" + id
}

// Get returns the cached product, or (nil, nil) on a miss.
func (c *ProductCache) Get(ctx context.Context, id string) (*domain.Product, error) {
	if c == nil {
		return nil, nil
	}
	payload, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var product domain.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Set stores a product with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, product *domain.Product) error {
	if c == nil || product == nil {
		return nil
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKey(product.ID), payload, c.ttl).Err()
}

// Invalidate drops a cached product after update or delete.
func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, productKey(id)).Err()
}
