package repository

import (
	"errors"
	"time"
)

const DefaultTTL = 24 * time.Hour

var ErrNotFound = errors.New("not found")

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
