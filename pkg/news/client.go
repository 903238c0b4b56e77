package news

import (
	"context"

	"stockscout/internal/model"
)

// Source is one upstream of news candidates: a symbol's financial-news feed,
// a web-search query or an RSS feed.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.NewsCandidate, error)
}

// Feed returns the raw news items a financial-data provider publishes for a
// symbol. Items are provider-shaped and go through Normalize.
type Feed interface {
	Name() string
	News(ctx context.Context, symbol string, limit int) ([]RawItem, error)
}

type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}
