package dms

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// LivenessCache mirrors check-in timestamps into Redis so a
// multi-process deployment (a check-in daemon and a status-reporting
// web façade, say) can read the latest check-in without reading the
// registry's JSON file. The registry file remains the source of truth;
// the cache is a convenience copy with its own TTL, and a miss is
// reported to the caller rather than filled from the registry.
type LivenessCache struct {
	client *redis.Client
}

// NewLivenessCache connects to addr (e.g. "localhost:6379").
func NewLivenessCache(addr string) *LivenessCache {
	return &LivenessCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Touch records name's check-in time, expiring after ttl so a stale
// cache entry for a disabled artifact ages out on its own.
func (c *LivenessCache) Touch(ctx context.Context, name string, at time.Time, ttl time.Duration) error {
	if err := c.client.Set(ctx, cacheKey(name), at.Unix(), ttl).Err(); err != nil {
		return herrors.New(herrors.IoError, "dms.LivenessCache.Touch", err)
	}
	return nil
}

// LastSeen returns the cached check-in time for name, or ok=false on
// a cache miss (the caller should fall back to the registry file).
func (c *LivenessCache) LastSeen(ctx context.Context, name string) (t time.Time, ok bool, err error) {
	v, redisErr := c.client.Get(ctx, cacheKey(name)).Int64()
	if redisErr == redis.Nil {
		return time.Time{}, false, nil
	}
	if redisErr != nil {
		return time.Time{}, false, herrors.New(herrors.IoError, "dms.LivenessCache.LastSeen", redisErr)
	}
	return time.Unix(v, 0), true, nil
}

func cacheKey(name string) string { return "hermes:dms:checkin:" + name }
