package research

import (
	"context"
	"errors"
	"sync"
	"time"

	"stockscout/internal/model"
	"stockscout/pkg/market"
	"stockscout/pkg/news"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	gets    int
	puts    int
	getErr  error
	putErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, url string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", false, c.getErr
	}
	s, ok := c.entries[url]
	return s, ok, nil
}

func (c *fakeCache) Put(_ context.Context, url, summary string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[url] = summary
	return nil
}

func (c *fakeCache) EvictExpired(context.Context) (int64, error) {
	return 0, nil
}

type fakeExtractor struct {
	mu    sync.Mutex
	texts map[string]string
	calls map[string]int
}

func newFakeExtractor(texts map[string]string) *fakeExtractor {
	return &fakeExtractor{texts: texts, calls: map[string]int{}}
}

func (e *fakeExtractor) Extract(_ context.Context, url string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls[url]++
	return e.texts[url]
}

func (e *fakeExtractor) total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		n += c
	}
	return n
}

type fakeSummarizer struct {
	mu    sync.Mutex
	calls int
	reply string
	err   error
}

func (s *fakeSummarizer) Summarize(_ context.Context, text, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if s.reply != "" {
		return s.reply, nil
	}
	return "summary of " + text, nil
}

// countingResolver summarises every URL as "sum:<url>" except those in fail.
type countingResolver struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
	delay time.Duration
}

func newCountingResolver() *countingResolver {
	return &countingResolver{calls: map[string]int{}, fail: map[string]bool{}}
}

func (r *countingResolver) Resolve(_ context.Context, c model.NewsCandidate) (model.NewsSummary, bool) {
	r.mu.Lock()
	r.calls[c.URL]++
	failed := r.fail[c.URL]
	r.mu.Unlock()

	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if failed {
		return model.NewsSummary{}, false
	}
	return model.NewsSummary{Title: c.Title, Summary: "sum:" + c.URL}, true
}

func (r *countingResolver) count(url string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[url]
}

type fakeSource struct {
	name       string
	candidates []model.NewsCandidate
	err        error
}

func (s fakeSource) Name() string { return s.name }

func (s fakeSource) Fetch(context.Context) ([]model.NewsCandidate, error) {
	return s.candidates, s.err
}

type fakeMarket struct {
	prices map[string]float64
	panics map[string]bool
}

func (m *fakeMarket) Quote(_ context.Context, symbol string) (float64, error) {
	if m.panics[symbol] {
		panic("provider exploded for " + symbol)
	}
	p, ok := m.prices[symbol]
	if !ok {
		return 0, market.ErrUnknownSymbol
	}
	return p, nil
}

func (m *fakeMarket) Fundamentals(_ context.Context, symbol string) (model.Fundamentals, error) {
	if symbol == "NOFUND" {
		return model.Fundamentals{}, errors.New("profile unavailable")
	}
	return model.Fundamentals{Name: symbol + " Inc.", Sector: "Technology"}, nil
}

type fakeFeed struct {
	items map[string][]news.RawItem
}

func (f *fakeFeed) Name() string { return "fake" }

func (f *fakeFeed) News(_ context.Context, symbol string, _ int) ([]news.RawItem, error) {
	return f.items[symbol], nil
}
