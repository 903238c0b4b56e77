package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestRunVisitsEveryIndex(t *testing.T) {
	e := New("test", 3)

	var mu sync.Mutex
	seen := make(map[int]bool)

	e.Run(context.Background(), 10, func(ctx context.Context, i int) {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
	})

	assert.Equal(t, 10, len(seen))
}

func TestRunRespectsWidth(t *testing.T) {
	e := New("test", 2)

	var inFlight, peak int32
	e.Run(context.Background(), 8, func(ctx context.Context, i int) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
	})

	assert.Equal(t, true, peak <= 2)
	assert.Equal(t, int32(0), atomic.LoadInt32(&inFlight))
}

func TestRunRecoversPanics(t *testing.T) {
	e := New("test", 4)

	var done int32
	e.Run(context.Background(), 5, func(ctx context.Context, i int) {
		if i == 2 {
			panic("boom")
		}
		atomic.AddInt32(&done, 1)
	})

	assert.Equal(t, int32(4), done)
}

func TestRunStopsSchedulingOnCanceledContext(t *testing.T) {
	e := New("test", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	e.Run(ctx, 5, func(ctx context.Context, i int) {
		atomic.AddInt32(&calls, 1)
	})

	assert.Equal(t, int32(0), calls)
}

func TestNewClampsWidth(t *testing.T) {
	assert.Equal(t, 1, New("zero", 0).Width())
	assert.Equal(t, 8, New("eight", 8).Width())
}
