package research

import (
	"context"
	"log/slog"
	"time"

	"stockscout/internal/model"
)

// NewsResolver turns a candidate into a summary: cache first, then
// extraction and summarisation. Only genuine summaries are written back.
type NewsResolver struct {
	cache      SummaryCache
	extractor  Extractor
	summarizer Summarizer
	ttl        time.Duration
}

// NewNewsResolver accepts a nil cache, which behaves as always empty.
func NewNewsResolver(cache SummaryCache, extractor Extractor, summarizer Summarizer, ttl time.Duration) *NewsResolver {
	return &NewsResolver{
		cache:      cache,
		extractor:  extractor,
		summarizer: summarizer,
		ttl:        ttl,
	}
}

func (r *NewsResolver) Resolve(ctx context.Context, c model.NewsCandidate) (model.NewsSummary, bool) {
	if r.cache != nil {
		summary, ok, err := r.cache.Get(ctx, c.URL)
		if err != nil {
			slog.Warn("summary cache read failed", "url", c.URL, "error", err)
		} else if ok {
			slog.Debug("summary cache hit", "url", c.URL)
			return model.NewsSummary{Title: c.Title, Summary: summary}, true
		}
	}

	text := r.extractor.Extract(ctx, c.URL)
	if text == "" {
		return model.NewsSummary{}, false
	}

	summary, err := r.summarizer.Summarize(ctx, text, c.URL)
	if err != nil {
		slog.Warn("summarization failed", "url", c.URL, "source", c.SourceLabel, "error", err)
		return model.NewsSummary{}, false
	}
	if summary == "" {
		return model.NewsSummary{}, false
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, c.URL, summary, r.ttl); err != nil {
			slog.Warn("summary cache write failed", "url", c.URL, "error", err)
		}
	}

	return model.NewsSummary{Title: c.Title, Summary: summary}, true
}
