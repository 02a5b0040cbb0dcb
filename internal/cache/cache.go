package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-delivery/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Key formats for cached catalogue reads.
const (
	KeyRestaurants    = "restaurants:all"
	KeyRestaurant     = "restaurant:%d"
	KeyRestaurantMenu = "menu:restaurant:%d"
)

// TTLCatalogue bounds staleness of restaurant and menu reads. Order writes
// never touch the cache; entries simply expire.
var TTLCatalogue = 5 * time.Minute

// Cache is a thin JSON cache over Redis. A nil *Cache is valid and behaves
// as a permanent miss, so callers need no enabled/disabled branching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// New connects a cache client, or returns nil (cache disabled) when the
// configuration has Redis turned off.
func New(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (*Cache, error) {
	if !cfg.Enabled {
		logger.Info().Msg("redis cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Msg("redis cache connected")

	return &Cache{
		client: client,
		ttl:    TTLCatalogue,
		logger: logger.With().Str("component", "cache").Logger(),
	}, nil
}

// Get unmarshals the cached value for key into dest. It reports false on a
// miss or any Redis/decode failure; failures are logged and treated as misses
// so the caller falls through to the database.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache payload corrupt")
		return false
	}

	return true
}

// Set stores value under key with the catalogue TTL. Failures are logged and
// swallowed; the cache is best-effort.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to marshal cache value")
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Close releases the Redis client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
