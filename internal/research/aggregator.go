package research

import (
	"context"
	"log/slog"
	"sync"

	"stockscout/internal/model"
	"stockscout/internal/pool"
	"stockscout/pkg/news"
)

// Aggregator fans out over news sources, deduplicates their candidates by
// URL and resolves each unique candidate. Source fetches and resolutions run
// on separate executors.
type Aggregator struct {
	sources  *pool.Executor
	resolves *pool.Executor
	resolver Resolver
}

func NewAggregator(sources, resolves *pool.Executor, resolver Resolver) *Aggregator {
	return &Aggregator{sources: sources, resolves: resolves, resolver: resolver}
}

// WithResolver returns a copy of a that resolves through r. The executors
// are shared.
func (a *Aggregator) WithResolver(r Resolver) *Aggregator {
	cp := *a
	cp.resolver = r
	return &cp
}

// Gather returns the summaries of every unique candidate the sources yield,
// in completion order.
func (a *Aggregator) Gather(ctx context.Context, sources []news.Source) []model.NewsSummary {
	return a.GatherN(ctx, sources, 0)
}

// GatherN is Gather limited to the first limit unique candidates. A limit of
// zero or less means no limit.
func (a *Aggregator) GatherN(ctx context.Context, sources []news.Source, limit int) []model.NewsSummary {
	candidates := Dedup(a.fetchAll(ctx, sources))
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	var (
		mu        sync.Mutex
		summaries = make([]model.NewsSummary, 0, len(candidates))
	)

	a.resolves.Run(ctx, len(candidates), func(ctx context.Context, i int) {
		s, ok := a.resolver.Resolve(ctx, candidates[i])
		if !ok {
			return
		}
		mu.Lock()
		summaries = append(summaries, s)
		mu.Unlock()
	})

	return summaries
}

// fetchAll returns one candidate list per source, in source order. A failed
// source contributes an empty list.
func (a *Aggregator) fetchAll(ctx context.Context, sources []news.Source) [][]model.NewsCandidate {
	lists := make([][]model.NewsCandidate, len(sources))

	a.sources.Run(ctx, len(sources), func(ctx context.Context, i int) {
		candidates, err := sources[i].Fetch(ctx)
		if err != nil {
			slog.Warn("news source failed", "source", sources[i].Name(), "error", err)
			return
		}
		lists[i] = candidates
	})

	return lists
}

// Dedup flattens lists in order and keeps the first candidate seen for each
// URL.
func Dedup(lists [][]model.NewsCandidate) []model.NewsCandidate {
	seen := make(map[string]struct{})
	var out []model.NewsCandidate

	for _, list := range lists {
		for _, c := range list {
			if c.URL == "" {
				continue
			}
			if _, ok := seen[c.URL]; ok {
				continue
			}
			seen[c.URL] = struct{}{}
			out = append(out, c)
		}
	}

	return out
}
