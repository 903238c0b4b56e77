package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
}

func TestMemoryCachePutThenGetUntilExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := NewMemoryCache()
	c.now = clock.Now

	assert.Equal(t, nil, c.Put(ctx, "https://x/1", "S1", 24*time.Hour))

	got, ok, err := c.Get(ctx, "https://x/1")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, "S1", got)

	clock.Advance(25 * time.Hour)

	_, ok, err = c.Get(ctx, "https://x/1")
	assert.Equal(t, nil, err)
	assert.Equal(t, false, ok)

	// reading never deletes
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheEvictExpired(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := NewMemoryCache()
	c.now = clock.Now

	c.Put(ctx, "https://x/old", "old", time.Hour)
	c.Put(ctx, "https://x/new", "new", 48*time.Hour)

	clock.Advance(2 * time.Hour)

	n, err := c.EvictExpired(ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(1), n)

	_, err = c.Entry(ctx, "https://x/old")
	assert.Equal(t, true, errors.Is(err, ErrNotFound))

	got, ok, _ := c.Get(ctx, "https://x/new")
	assert.Equal(t, true, ok)
	assert.Equal(t, "new", got)

	n, err = c.EvictExpired(ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(0), n)
}

func TestMemoryCachePutOverwrites(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	c := NewMemoryCache()
	c.now = clock.Now

	c.Put(ctx, "https://x/1", "S1", time.Hour)
	clock.Advance(2 * time.Hour)
	c.Put(ctx, "https://x/1", "S2", 0)

	e, err := c.Entry(ctx, "https://x/1")
	assert.Equal(t, nil, err)
	assert.Equal(t, "S2", e.Summary)
	assert.Equal(t, clock.Now().Add(DefaultTTL), e.ExpiresAt)
	assert.Equal(t, 1, c.Len())
}
