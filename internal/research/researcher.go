package research

import (
	"context"
	"errors"
	"log/slog"

	"stockscout/internal/model"
	"stockscout/internal/pool"
	"stockscout/pkg/market"
	"stockscout/pkg/news"
)

const DefaultSymbolNewsLimit = 3

// Researcher gathers price, fundamentals and news for every holding of a
// portfolio. One symbol failing never affects the others.
type Researcher struct {
	market     MarketData
	feed       news.Feed
	aggregator *Aggregator
	symbols    *pool.Executor
	newsLimit  int
}

func NewResearcher(md MarketData, feed news.Feed, aggregator *Aggregator, symbols *pool.Executor, newsLimit int) *Researcher {
	if newsLimit <= 0 {
		newsLimit = DefaultSymbolNewsLimit
	}
	return &Researcher{
		market:     md,
		feed:       feed,
		aggregator: aggregator,
		symbols:    symbols,
		newsLimit:  newsLimit,
	}
}

// WithAggregator returns a copy of r that gathers news through a.
func (r *Researcher) WithAggregator(a *Aggregator) *Researcher {
	cp := *r
	cp.aggregator = a
	return &cp
}

func (r *Researcher) Research(ctx context.Context, portfolio model.Portfolio) map[string]model.SymbolResearch {
	symbols := portfolio.Symbols()

	slots := make([]model.SymbolResearch, len(symbols))
	for i := range slots {
		slots[i] = model.DefaultSymbolResearch()
	}

	r.symbols.Run(ctx, len(symbols), func(ctx context.Context, i int) {
		res, err := r.researchSymbol(ctx, symbols[i])
		if err != nil {
			slog.Warn("symbol research failed", "symbol", symbols[i], "error", err)
			return
		}
		slots[i] = res
	})

	out := make(map[string]model.SymbolResearch, len(symbols))
	for i, symbol := range symbols {
		out[symbol] = slots[i]
	}
	return out
}

// researchSymbol returns an error only for an unknown symbol. Other
// failures leave the affected field at its zero value.
func (r *Researcher) researchSymbol(ctx context.Context, symbol string) (model.SymbolResearch, error) {
	res := model.DefaultSymbolResearch()

	price, err := r.market.Quote(ctx, symbol)
	if errors.Is(err, market.ErrUnknownSymbol) {
		return res, err
	}
	if err != nil {
		slog.Warn("quote failed", "symbol", symbol, "error", err)
	}
	res.Price = price

	fundamentals, err := r.market.Fundamentals(ctx, symbol)
	if err != nil {
		slog.Warn("fundamentals failed", "symbol", symbol, "error", err)
	} else {
		res.Fundamentals = fundamentals
	}

	if r.feed != nil && r.aggregator != nil {
		source := news.SymbolSource{Symbol: symbol, Feed: r.feed, Limit: r.newsLimit}
		res.News = r.aggregator.GatherN(ctx, []news.Source{source}, r.newsLimit)
	}

	return res, nil
}
