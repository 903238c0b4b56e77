package research

import (
	"context"
	"time"

	"stockscout/internal/model"
)

// SummaryCache is satisfied by every backend in internal/repository.
type SummaryCache interface {
	Get(ctx context.Context, url string) (string, bool, error)
	Put(ctx context.Context, url, summary string, ttl time.Duration) error
	EvictExpired(ctx context.Context) (int64, error)
}

// Extractor returns the readable text of a page, or "" when it has none.
type Extractor interface {
	Extract(ctx context.Context, url string) string
}

// Summarizer returns ("", nil) for text too short to summarise and an error
// when the model call failed.
type Summarizer interface {
	Summarize(ctx context.Context, text string, url string) (string, error)
}

type MarketData interface {
	Quote(ctx context.Context, symbol string) (float64, error)
	Fundamentals(ctx context.Context, symbol string) (model.Fundamentals, error)
}

type Resolver interface {
	Resolve(ctx context.Context, candidate model.NewsCandidate) (model.NewsSummary, bool)
}
