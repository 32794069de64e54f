package registrations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statsKeyPrefix = "stats:registrations:"

// StatsCache serves dashboard counts, caching each bucket in Redis for ttl.
// A nil Redis client or any Redis error falls through to the store.
type StatsCache struct {
	store  Store
	rdb    *redis.Client
	ttl    time.Duration
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewStatsCache creates the dashboard counter. rdb may be nil.
func NewStatsCache(store Store, rdb *redis.Client, ttl time.Duration, loc *time.Location, logger *zap.Logger) *StatsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StatsCache{store: store, rdb: rdb, ttl: ttl, loc: loc, now: time.Now, logger: logger}
}

// statsKey is per bucket and calendar day so the day rollover never reads a stale window.
func statsKey(b Bucket, now time.Time) string {
	return statsKeyPrefix + string(b) + ":" + now.Format("2006-01-02")
}

// Count returns the count for one bucket.
func (c *StatsCache) Count(ctx context.Context, b Bucket) (int, error) {
	now := c.now().In(c.loc)
	if _, _, _, err := b.Window(now); err != nil {
		return 0, err
	}
	if c.rdb == nil || c.ttl <= 0 {
		return c.store.CountApprox(ctx, b, now)
	}

	key := statsKey(b, now)
	v, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if n, convErr := strconv.Atoi(v); convErr == nil {
			return n, nil
		}
		c.logger.Warn("stats cache holds non-integer value", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
	}

	n, err := c.store.CountApprox(ctx, b, now)
	if err != nil {
		return 0, err
	}
	if err := c.rdb.Set(ctx, key, n, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
	return n, nil
}

// Stats returns all three buckets.
func (c *StatsCache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	var err error
	if s.Total, err = c.Count(ctx, BucketAll); err != nil {
		return Stats{}, fmt.Errorf("count all: %w", err)
	}
	if s.Today, err = c.Count(ctx, BucketToday); err != nil {
		return Stats{}, fmt.Errorf("count today: %w", err)
	}
	if s.ThisWeek, err = c.Count(ctx, BucketThisWeek); err != nil {
		return Stats{}, fmt.Errorf("count this week: %w", err)
	}
	return s, nil
}
