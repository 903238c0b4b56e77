package research

import "stockscout/pkg/news"

// MacroPlan lists the market-wide sources gathered once per pass.
type MacroPlan struct {
	Queries         []string
	ResultsPerQuery int
	Searcher        news.Searcher

	Tickers    []string
	TickerFeed news.Feed
	TickerNews int

	FeedURLs  []string
	RSS       *news.RSSReader
	FeedItems int
}

// Sources returns search sources first, then index tickers, then feeds.
// Earlier sources win when two surface the same URL.
func (p MacroPlan) Sources() []news.Source {
	var sources []news.Source

	if p.Searcher != nil {
		for _, q := range p.Queries {
			sources = append(sources, news.QuerySource{Query: q, Searcher: p.Searcher, Limit: p.ResultsPerQuery})
		}
	}

	if p.TickerFeed != nil {
		for _, t := range p.Tickers {
			sources = append(sources, news.SymbolSource{Symbol: t, Feed: p.TickerFeed, Limit: p.TickerNews})
		}
	}

	if p.RSS != nil {
		for _, u := range p.FeedURLs {
			sources = append(sources, news.FeedSource{URL: u, Reader: p.RSS, Limit: p.FeedItems})
		}
	}

	return sources
}
