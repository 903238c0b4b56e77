package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"stockscout/internal/model"
)

const (
	summaryKeyPrefix = "stockscout:summary:"
	summaryExpiryKey = "stockscout:summary:expiry"
)

// RedisCache stores each summary under its own key with a server-side TTL.
// A sorted set of url -> expiry (unix ms) lets EvictExpired count and drop
// stale index members.
type RedisCache struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, now: time.Now}
}

func (c *RedisCache) Get(ctx context.Context, url string) (string, bool, error) {
	summary, err := c.client.Get(ctx, summaryKeyPrefix+url).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return summary, true, nil
}

func (c *RedisCache) Put(ctx context.Context, url, summary string, ttl time.Duration) error {
	ttl = ttlOrDefault(ttl)
	expiresAt := c.now().Add(ttl)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, summaryKeyPrefix+url, summary, ttl)
	pipe.ZAdd(ctx, summaryExpiryKey, redis.Z{Score: float64(expiresAt.UnixMilli()), Member: url})
	_, err := pipe.Exec(ctx)
	return err
}

// EvictExpired removes index members whose expiry has passed, together with
// any value key the server has not dropped yet.
func (c *RedisCache) EvictExpired(ctx context.Context) (int64, error) {
	max := "(" + strconv.FormatInt(c.now().UnixMilli(), 10)

	urls, err := c.client.ZRangeByScore(ctx, summaryExpiryKey, &redis.ZRangeBy{Min: "-inf", Max: max}).Result()
	if err != nil {
		return 0, err
	}
	if len(urls) == 0 {
		return 0, nil
	}

	var removed int64
	for _, url := range urls {
		n, err := c.evictOne(ctx, url)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

// evictOne drops url only while its index score is still expired, so a
// concurrent Put that refreshed it wins.
func (c *RedisCache) evictOne(ctx context.Context, url string) (int64, error) {
	var removed int64
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		score, err := tx.ZScore(ctx, summaryExpiryKey, url).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if int64(score) >= c.now().UnixMilli() {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZRem(ctx, summaryExpiryKey, url)
			pipe.Del(ctx, summaryKeyPrefix+url)
			return nil
		})
		if err == nil {
			removed = 1
		}
		return err
	}, summaryExpiryKey, summaryKeyPrefix+url)

	if errors.Is(err, redis.TxFailedErr) {
		return 0, nil
	}
	return removed, err
}

func (c *RedisCache) Entry(ctx context.Context, url string) (*model.CacheEntry, error) {
	summary, err := c.client.Get(ctx, summaryKeyPrefix+url).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	e := &model.CacheEntry{URL: url, Summary: summary}

	score, err := c.client.ZScore(ctx, summaryExpiryKey, url).Result()
	if err == nil {
		e.ExpiresAt = time.UnixMilli(int64(score))
		return e, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("reading expiry of %s: %w", url, err)
	}

	// Missing from the index: the key's own TTL is the expiry.
	ttl, err := c.client.PTTL(ctx, summaryKeyPrefix+url).Result()
	if err != nil {
		return nil, fmt.Errorf("reading ttl of %s: %w", url, err)
	}
	switch ttl {
	case -2:
		return nil, ErrNotFound
	case -1:
		return nil, fmt.Errorf("summary %s has no expiry", url)
	}
	e.ExpiresAt = c.now().Add(ttl)
	return e, nil
}
