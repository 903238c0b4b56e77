package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"stockscout/internal/analyst"
	"stockscout/internal/config"
	"stockscout/internal/model"
	"stockscout/internal/pipeline"
	"stockscout/internal/pool"
	"stockscout/internal/research"
	"stockscout/pkg/llm"
	"stockscout/pkg/market"
	"stockscout/pkg/news"
)

// App holds every long-lived component of a research pass. It is built once
// per process and shared by concurrent passes.
type App struct {
	*Stores

	Config     *config.Config
	Resolver   *research.NewsResolver
	Aggregator *research.Aggregator
	Researcher *research.Researcher
	Composer   *analyst.Composer
	Macro      []news.Source
}

type provider interface {
	research.MarketData
	news.Feed
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	stores, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := build(ctx, cfg, stores)
	if err != nil {
		stores.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, stores *Stores) (*App, error) {
	client, err := llm.New(ctx, llm.Options{Provider: cfg.LLM.Provider, Model: cfg.LLM.Model, APIKey: cfg.LLMKey()})
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	summaryClient := client
	if cfg.LLM.SummaryModel != "" {
		summaryClient, err = llm.New(ctx, llm.Options{Provider: cfg.LLM.Provider, Model: cfg.LLM.SummaryModel, APIKey: cfg.LLMKey()})
		if err != nil {
			return nil, fmt.Errorf("summary llm client: %w", err)
		}
	}

	summarizer := llm.NewSummarizer(summaryClient,
		llm.WithMinChars(cfg.Summary.MinChars),
		llm.WithMaxChars(cfg.Summary.MaxChars),
		llm.WithTimeout(cfg.LLMTimeout()),
	)

	yahoo := market.NewYahooClient()
	md := marketProvider(cfg, yahoo)

	resolver := research.NewNewsResolver(stores.SummaryCache(), news.NewExtractor(cfg.FetchTimeout()), summarizer, cfg.CacheTTL())
	aggregator := research.NewAggregator(
		pool.New("sources", cfg.Pools.Sources),
		pool.New("resolve", cfg.Pools.Resolve),
		resolver,
	)
	researcher := research.NewResearcher(md, md, aggregator, pool.New("symbols", cfg.Pools.Symbols), cfg.Research.SymbolNewsLimit)

	plan := research.MacroPlan{
		Queries:         cfg.Research.MacroQueries,
		ResultsPerQuery: cfg.Research.SearchResultsPerQuery,
		Searcher:        news.NewDuckDuckGoClient(cfg.FetchTimeout()),
		Tickers:         cfg.Research.MacroTickers,
		TickerFeed:      yahoo,
		TickerNews:      cfg.Research.TickerNewsLimit,
		FeedURLs:        cfg.Research.Feeds,
		RSS:             news.NewRSSReader(cfg.FetchTimeout()),
		FeedItems:       cfg.Research.FeedItems,
	}

	slog.Info("app ready",
		"llm", client.ModelName(),
		"market", md.Name(),
		"cache", cfg.Cache.Backend,
		"macro_sources", len(plan.Sources()),
	)

	return &App{
		Stores:     stores,
		Config:     cfg,
		Resolver:   resolver,
		Aggregator: aggregator,
		Researcher: researcher,
		Composer:   analyst.NewComposer(client, cfg.LLMTimeout()),
		Macro:      plan.Sources(),
	}, nil
}

// marketProvider picks Finnhub when configured with a key. Index tickers
// always go through Yahoo.
func marketProvider(cfg *config.Config, yahoo *market.YahooClient) provider {
	if strings.ToLower(cfg.Market.Provider) == "finnhub" {
		if cfg.Env.FinnhubKey != "" {
			return market.NewFinnHubClient(cfg.Env.FinnhubKey)
		}
		slog.Warn("FINNHUB_API_KEY is not set, using yahoo")
	}
	return yahoo
}

func (a *App) Pipeline() *pipeline.Pipeline {
	var saver pipeline.ReportSaver
	if a.Reports != nil {
		saver = a.Reports
	}

	return pipeline.New(
		&pipeline.ResearchStage{
			Researcher: a.Researcher,
			Aggregator: a.Aggregator,
			Resolver:   a.Resolver,
			Macro:      a.Macro,
		},
		&pipeline.AnalystStage{Composer: a.Composer},
		&pipeline.PersistStage{Store: saver},
	).Finally(&pipeline.MaintenanceStage{Cache: a.SummaryCache()})
}

// Analyze runs one full research pass for portfolio. A job id is generated
// when jobID is empty.
func (a *App) Analyze(ctx context.Context, portfolio model.Portfolio, jobID string) (*pipeline.State, error) {
	if jobID == "" {
		jobID = uuid.NewString()
	}

	state := &pipeline.State{JobID: jobID, Portfolio: portfolio}
	if err := a.Pipeline().Run(ctx, state); err != nil {
		return state, err
	}
	return state, nil
}

// MacroNews gathers the market-wide news only.
func (a *App) MacroNews(ctx context.Context) []model.NewsSummary {
	pass := research.Memoize(a.Resolver)
	return a.Aggregator.WithResolver(pass).Gather(ctx, a.Macro)
}

// Summarize resolves a single URL through the cache, extractor and
// summarizer.
func (a *App) Summarize(ctx context.Context, rawURL string) (model.NewsSummary, bool, error) {
	u, ok := model.CanonicalURL(rawURL)
	if !ok {
		return model.NewsSummary{}, false, fmt.Errorf("invalid url %q", rawURL)
	}
	s, ok := a.Resolver.Resolve(ctx, model.NewsCandidate{Title: u, URL: u, SourceLabel: "manual"})
	return s, ok, nil
}
