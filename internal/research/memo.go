package research

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"stockscout/internal/model"
)

type outcome struct {
	summary string
	ok      bool
}

// PassResolver wraps a Resolver for a single research pass. Concurrent and
// repeated requests for one URL share a single underlying attempt.
type PassResolver struct {
	inner Resolver
	group singleflight.Group

	mu   sync.Mutex
	done map[string]outcome
}

func Memoize(inner Resolver) *PassResolver {
	return &PassResolver{inner: inner, done: make(map[string]outcome)}
}

func (p *PassResolver) Resolve(ctx context.Context, c model.NewsCandidate) (model.NewsSummary, bool) {
	p.mu.Lock()
	o, seen := p.done[c.URL]
	p.mu.Unlock()

	if !seen {
		v, _, _ := p.group.Do(c.URL, func() (interface{}, error) {
			p.mu.Lock()
			prev, seen := p.done[c.URL]
			p.mu.Unlock()
			if seen {
				return prev, nil
			}

			s, ok := p.inner.Resolve(ctx, c)
			o := outcome{summary: s.Summary, ok: ok}

			p.mu.Lock()
			p.done[c.URL] = o
			p.mu.Unlock()
			return o, nil
		})
		o = v.(outcome)
	}

	if !o.ok {
		return model.NewsSummary{}, false
	}
	return model.NewsSummary{Title: c.Title, Summary: o.summary}, true
}
