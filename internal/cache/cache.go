// Package cache keeps category lookups in Redis in front of the category store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/starford/bloggerbox/internal/models"
	"github.com/starford/bloggerbox/internal/store"
)

const keyPrefix = "bloggerbox:category:"

// Options configures the Redis connection.
type Options struct {
	Address  string
	Password string
	DB       int
}

// Connect opens a Redis client and checks it answers.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cache: ping redis %s: %w", opts.Address, err)
	}
	return rdb, nil
}

// CategoryCache is a read-through cache for single-category lookups.
//
// Writes go to the wrapped repository first; the cached entry is dropped after
// a successful rename or delete. Redis failures are logged and fall back to the
// repository, so the cache never changes what a caller observes beyond its TTL.
type CategoryCache struct {
	store.CategoryRepository
	rdb *redis.Client
	ttl time.Duration
}

// NewCategoryCache wraps repo with a Redis cache whose entries live for ttl.
func NewCategoryCache(rdb *redis.Client, repo store.CategoryRepository, ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CategoryCache{CategoryRepository: repo, rdb: rdb, ttl: ttl}
}

var _ store.CategoryRepository = (*CategoryCache)(nil)

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// GetCategory serves from Redis when possible and fills the cache on a miss.
func (c *CategoryCache) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var cat models.Category
		if err := json.Unmarshal(raw, &cat); err == nil {
			return &cat, nil
		}
		slog.Warn("cache: corrupt category entry", "id", id)
	case !errors.Is(err, redis.Nil):
		slog.Warn("cache: get category", "id", id, "error", err)
	}

	cat, err := c.CategoryRepository.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(cat); err == nil {
		if err := c.rdb.Set(ctx, key(id), payload, c.ttl).Err(); err != nil {
			slog.Warn("cache: set category", "id", id, "error", err)
		}
	}
	return cat, nil
}

// UpdateCategory writes through and evicts the cached entry.
func (c *CategoryCache) UpdateCategory(ctx context.Context, cat models.Category) error {
	if err := c.CategoryRepository.UpdateCategory(ctx, cat); err != nil {
		return err
	}
	c.evict(ctx, cat.ID)
	return nil
}

// DeleteCategory deletes through and evicts the cached entry.
func (c *CategoryCache) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := c.CategoryRepository.DeleteCategory(ctx, id); err != nil {
		return err
	}
	c.evict(ctx, id)
	return nil
}

func (c *CategoryCache) evict(ctx context.Context, id uuid.UUID) {
	if err := c.rdb.Del(ctx, key(id)).Err(); err != nil {
		slog.Warn("cache: evict category", "id", id, "error", err)
	}
}
