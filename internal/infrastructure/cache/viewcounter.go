package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const viewCountPrefix = "article:views:"

// ViewCounter buffers article view counts in Redis so the hot read path
// never writes to PostgreSQL. A periodic job drains the counters into
// the articles table.
type ViewCounter struct {
	client *redis.Client
}

// NewViewCounter shares the cache's Redis connection
func NewViewCounter(c *RedisCache) *ViewCounter {
	return &ViewCounter{client: c.client}
}

// Record buffers one view for an article. Errors are returned so callers
// can decide to ignore them; a lost view is not worth failing a read.
func (v *ViewCounter) Record(ctx context.Context, articleID string) error {
	return v.client.Incr(ctx, viewCountPrefix+articleID).Err()
}

// Drain atomically reads and resets every buffered counter, returning
// article id -> pending view count.
func (v *ViewCounter) Drain(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)

	iter := v.client.Scan(ctx, 0, viewCountPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := v.client.GetDel(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return counts, fmt.Errorf("failed to drain view counter %s: %w", key, err)
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		counts[strings.TrimPrefix(key, viewCountPrefix)] = n
	}
	if err := iter.Err(); err != nil {
		return counts, fmt.Errorf("failed to scan view counters: %w", err)
	}
	return counts, nil
}
