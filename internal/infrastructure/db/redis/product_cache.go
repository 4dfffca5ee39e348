package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/templhaven/marketplace-api/internal/core/domain"
)

const cacheTTL = 5 * time.Minute

// ProductCache caches active products for the public catalog read path.
// Entries are stored under both id and slug so either lookup form hits.
// Key format: catalog:<id-or-slug>
type ProductCache struct {
	client *redis.Client
}

// NewProductCache creates a ProductCache wrapping the given Redis client.
func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

// Get returns the cached product for the key, or (nil, nil) on a miss.
func (c *ProductCache) Get(ctx context.Context, key string) (*domain.Product, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog cache get: %w", err)
	}

	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		// Corrupt entry: drop it and report a miss.
		_ = c.client.Del(ctx, c.key(key)).Err()
		return nil, nil
	}
	return &p, nil
}

// Set stores the product under both its id and its slug (expires after cacheTTL).
func (c *ProductCache) Set(ctx context.Context, p *domain.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("catalog cache marshal: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.key(p.ID), raw, cacheTTL)
	pipe.Set(ctx, c.key(p.Slug), raw, cacheTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate removes both cache entries for a product.
func (c *ProductCache) Invalidate(ctx context.Context, id, slug string) error {
	return c.client.Del(ctx, c.key(id), c.key(slug)).Err()
}

func (c *ProductCache) key(s string) string {
	return "catalog:" + s
}
