package db

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ResearchQueueKey = "stockscout:queue:research"
	DeadLetterKey    = "stockscout:queue:failed"
)

func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("REDIS_URL is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func PushToQueue(ctx context.Context, client *redis.Client, queueKey string, data string) error {
	return client.LPush(ctx, queueKey, data).Err()
}

// PopFromQueue blocks for up to timeout. An empty queue returns redis.Nil.
func PopFromQueue(ctx context.Context, client *redis.Client, queueKey string, timeout time.Duration) (string, error) {
	result, err := client.BRPop(ctx, timeout, queueKey).Result()
	if err != nil {
		return "", err
	}
	return result[1], nil
}

func GetQueueLength(ctx context.Context, client *redis.Client, queueKey string) (int64, error) {
	return client.LLen(ctx, queueKey).Result()
}
