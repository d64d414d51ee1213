package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SlotCache memoizes resolved availability per doctor and date. Entries
// are short-lived and invalidated whenever a booking lands or the
// doctor edits their windows, so a hit is never more than slotTTL
// stale.
type SlotCache struct {
	client *redis.Client
	log    zerolog.Logger
}

const slotTTL = time.Minute

// New connects to Redis; an empty addr disables caching and every
// lookup misses.
func New(addr string, log zerolog.Logger) *SlotCache {
	if addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, slot caching disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Error().Err(err).Msg("redis unreachable, slot caching disabled")
		return nil
	}
	return &SlotCache{client: client, log: log}
}

func slotKey(doctorID uint, date string, durationMinutes int) string {
	return fmt.Sprintf("slots:%d:%s:%d", doctorID, date, durationMinutes)
}

// GetSlots returns the cached payload for a doctor/date/duration, or
// ok=false on miss or when caching is disabled.
func (c *SlotCache) GetSlots(ctx context.Context, doctorID uint, date string, durationMinutes int, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, slotKey(doctorID, date, durationMinutes)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetSlots stores a resolved payload with the standard TTL.
func (c *SlotCache) SetSlots(ctx context.Context, doctorID uint, date string, durationMinutes int, payload any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, slotKey(doctorID, date, durationMinutes), raw, slotTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("failed to cache slots")
	}
}

// InvalidateDoctor drops every cached entry for a doctor. Called after
// bookings, status changes, and availability edits.
func (c *SlotCache) InvalidateDoctor(ctx context.Context, doctorID uint) {
	if c == nil {
		return
	}
	pattern := fmt.Sprintf("slots:%d:*", doctorID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn().Err(err).Msg("failed to invalidate slot cache entry")
		}
	}
}

// Close tears down the Redis connection on shutdown.
func (c *SlotCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
