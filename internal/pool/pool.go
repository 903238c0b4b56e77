package pool

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Executor bounds how many tasks of one fan-out layer run at the same time.
// A single Executor is meant to be shared by every call into that layer, so
// the width holds across concurrent research passes too.
type Executor struct {
	name  string
	width int
	sem   *semaphore.Weighted
}

func New(name string, width int) *Executor {
	if width < 1 {
		width = 1
	}
	return &Executor{
		name:  name,
		width: width,
		sem:   semaphore.NewWeighted(int64(width)),
	}
}

func (e *Executor) Name() string {
	return e.name
}

func (e *Executor) Width() int {
	return e.width
}

// Run calls fn for every index in [0, n) and blocks until all calls have
// returned. A panicking task is logged and does not affect its siblings.
// Tasks not yet started when ctx is done are skipped.
func (e *Executor) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			slog.Warn("executor stopped scheduling", "pool", e.name, "scheduled", i, "total", n, "error", err)
			break
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer e.sem.Release(1)
			defer func() {
				if r := recover(); r != nil {
					slog.Error("task panicked", "pool", e.name, "index", i, "panic", r, "stack", string(debug.Stack()))
				}
			}()

			fn(ctx, i)
		}(i)
	}

	wg.Wait()
}
