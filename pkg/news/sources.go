package news

import (
	"context"
	"fmt"

	"stockscout/internal/model"
)

// SymbolSource yields the news a financial-data provider has for one symbol.
type SymbolSource struct {
	Symbol string
	Feed   Feed
	Limit  int
}

func (s SymbolSource) Name() string {
	return fmt.Sprintf("%s:%s", s.Feed.Name(), s.Symbol)
}

func (s SymbolSource) Fetch(ctx context.Context) ([]model.NewsCandidate, error) {
	items, err := s.Feed.News(ctx, s.Symbol, s.Limit)
	if err != nil {
		return nil, fmt.Errorf("%s news: %w", s.Name(), err)
	}
	return normalizeAll(items, s.Name(), s.Limit), nil
}

// QuerySource yields the top web-search results for one fixed query.
type QuerySource struct {
	Query    string
	Searcher Searcher
	Limit    int
}

func (s QuerySource) Name() string {
	return "search:" + s.Query
}

func (s QuerySource) Fetch(ctx context.Context) ([]model.NewsCandidate, error) {
	results, err := s.Searcher.Search(ctx, s.Query, s.Limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", s.Query, err)
	}

	items := make([]RawItem, 0, len(results))
	for _, r := range results {
		items = append(items, SearchItem{Title: r.Title, URL: r.URL, Snippet: r.Snippet})
	}
	return normalizeAll(items, s.Name(), s.Limit), nil
}

// FeedSource yields the latest entries of one RSS or Atom feed.
type FeedSource struct {
	URL    string
	Reader *RSSReader
	Limit  int
}

func (s FeedSource) Name() string {
	return "rss:" + s.URL
}

func (s FeedSource) Fetch(ctx context.Context) ([]model.NewsCandidate, error) {
	items, err := s.Reader.Items(ctx, s.URL, s.Limit)
	if err != nil {
		return nil, err
	}
	return normalizeAll(items, s.Name(), s.Limit), nil
}

func normalizeAll(items []RawItem, label string, limit int) []model.NewsCandidate {
	candidates := make([]model.NewsCandidate, 0, len(items))
	for _, item := range items {
		c, ok := Normalize(item)
		if !ok {
			continue
		}
		c.SourceLabel = label
		candidates = append(candidates, c)

		if limit > 0 && len(candidates) >= limit {
			break
		}
	}
	return candidates
}
