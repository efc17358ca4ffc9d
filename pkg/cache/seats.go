// Package cache caches the seat-availability read path in Redis. The cache
// is advisory: misses and Redis outages fall through to the database, and
// every commit or release invalidates the showtime's entry.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"movie-reservation/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const seatsTTL = 30 * time.Second

type SeatsCache struct {
	client *redis.Client
	log    *zap.Logger
}

// NewSeatsCache connects to Redis. Returns nil on connection failure so
// callers degrade to uncached reads.
func NewSeatsCache(config utils.RedisConfig, log *zap.Logger) *SeatsCache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, seat cache disabled", zap.Error(err))
		return nil
	}

	return &SeatsCache{
		client: client,
		log:    log.With(zap.String("component", "seats_cache")),
	}
}

func seatsKey(showtimeID string) string {
	return fmt.Sprintf("seats:%s", showtimeID)
}

// Get returns the cached payload for a showtime, or false on miss.
func (c *SeatsCache) Get(ctx context.Context, showtimeID string, dest any) bool {
	if c == nil {
		return false
	}

	raw, err := c.client.Get(ctx, seatsKey(showtimeID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("seat cache read failed", zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("seat cache decode failed", zap.Error(err))
		return false
	}

	return true
}

// Set stores the payload for a showtime with a short TTL.
func (c *SeatsCache) Set(ctx context.Context, showtimeID string, value any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("seat cache encode failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, seatsKey(showtimeID), raw, seatsTTL).Err(); err != nil {
		c.log.Warn("seat cache write failed", zap.Error(err))
	}
}

// Invalidate drops the entry for a showtime after a commit or release.
func (c *SeatsCache) Invalidate(ctx context.Context, showtimeID string) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, seatsKey(showtimeID)).Err(); err != nil {
		c.log.Warn("seat cache invalidate failed", zap.Error(err))
	}
}
