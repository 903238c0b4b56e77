package market

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"stockscout/internal/model"
	"stockscout/pkg/news"
)

const (
	finnhubNewsWindow     = 7 * 24 * time.Hour
	finnhubEarningsWindow = 90 * 24 * time.Hour
	finnhubTimeout        = 10 * time.Second
)

type FinnHubClient struct {
	client *finnhub.DefaultApiService
	now    func() time.Time
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	cfg.HTTPClient = &http.Client{Timeout: finnhubTimeout}
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{client: client, now: time.Now}
}

func (c *FinnHubClient) Name() string {
	return "finnhub"
}

func (c *FinnHubClient) Quote(ctx context.Context, symbol string) (float64, error) {
	q, _, err := c.client.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		return 0, fmt.Errorf("finnhub quote %s: %w", symbol, err)
	}

	// Finnhub answers unknown tickers with an all-zero quote.
	if q.GetC() == 0 && q.GetPc() == 0 {
		return 0, fmt.Errorf("finnhub quote %s: %w", symbol, ErrUnknownSymbol)
	}

	return float64(q.GetC()), nil
}

// Fundamentals combines the company profile, basic financial metrics, the
// latest analyst recommendation trend and the next earnings date. Only the
// profile is required; the other lookups are best effort.
func (c *FinnHubClient) Fundamentals(ctx context.Context, symbol string) (model.Fundamentals, error) {
	profile, _, err := c.client.CompanyProfile2(ctx).Symbol(symbol).Execute()
	if err != nil {
		return model.Fundamentals{}, fmt.Errorf("finnhub profile %s: %w", symbol, err)
	}

	if profile.GetName() == "" && profile.GetTicker() == "" {
		return model.Fundamentals{}, fmt.Errorf("finnhub profile %s: %w", symbol, ErrUnknownSymbol)
	}

	f := model.Fundamentals{
		Name:     profile.GetName(),
		Exchange: profile.GetExchange(),
		Sector:   profile.GetFinnhubIndustry(),
		Industry: profile.GetFinnhubIndustry(),
		// Finnhub reports market capitalization in millions.
		MarketCap: float64(profile.GetMarketCapitalization()) * 1e6,
	}

	financials, _, err := c.client.CompanyBasicFinancials(ctx).Symbol(symbol).Metric("all").Execute()
	if err != nil {
		slog.Warn("finnhub basic financials failed", "symbol", symbol, "error", err)
	} else {
		metrics := financials.GetMetric()
		f.PERatio = firstMetric(metrics, "peTTM", "peBasicExclExtraTTM", "peExclExtraTTM")
		f.PEGRatio = firstMetric(metrics, "pegTTM", "peg5Y")
		f.EPS = firstMetric(metrics, "epsTTM", "epsBasicExclExtraItemsTTM", "epsExclExtraItemsTTM")
	}

	trends, _, err := c.client.RecommendationTrends(ctx).Symbol(symbol).Execute()
	if err != nil {
		slog.Warn("finnhub recommendation trends failed", "symbol", symbol, "error", err)
	} else {
		f.AnalystRating = latestRating(trends)
	}

	now := c.now()
	calendar, _, err := c.client.EarningsCalendar(ctx).
		Symbol(symbol).
		From(now.Format("2006-01-02")).
		To(now.Add(finnhubEarningsWindow).Format("2006-01-02")).
		Execute()
	if err != nil {
		slog.Warn("finnhub earnings calendar failed", "symbol", symbol, "error", err)
	} else {
		f.NextEarnings = nextEarnings(calendar.GetEarningsCalendar())
	}

	return f, nil
}

func (c *FinnHubClient) News(ctx context.Context, symbol string, limit int) ([]news.RawItem, error) {
	now := c.now()
	res, _, err := c.client.CompanyNews(ctx).
		Symbol(symbol).
		From(now.Add(-finnhubNewsWindow).Format("2006-01-02")).
		To(now.Format("2006-01-02")).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub company news %s: %w", symbol, err)
	}

	var items []news.RawItem
	for _, n := range res {
		items = append(items, news.FinnhubItem{
			Headline: n.GetHeadline(),
			URL:      n.GetUrl(),
			Source:   n.GetSource(),
		})

		if limit > 0 && len(items) >= limit*2 {
			break
		}
	}

	return items, nil
}

func firstMetric(metrics map[string]interface{}, keys ...string) *float64 {
	for _, key := range keys {
		switch v := metrics[key].(type) {
		case float64:
			return &v
		case float32:
			f := float64(v)
			return &f
		}
	}
	return nil
}

// latestRating turns the most recent recommendation trend into the bucket
// most analysts sit in: strong_buy, buy, hold, sell or strong_sell.
func latestRating(trends []finnhub.RecommendationTrend) string {
	if len(trends) == 0 {
		return ""
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].GetPeriod() > trends[j].GetPeriod()
	})
	t := trends[0]

	buckets := []struct {
		label string
		count int64
	}{
		{"strong_buy", t.GetStrongBuy()},
		{"buy", t.GetBuy()},
		{"hold", t.GetHold()},
		{"sell", t.GetSell()},
		{"strong_sell", t.GetStrongSell()},
	}

	best := -1
	var bestCount int64
	for i, b := range buckets {
		if b.count > bestCount {
			best, bestCount = i, b.count
		}
	}
	if best < 0 {
		return ""
	}
	return buckets[best].label
}

func nextEarnings(releases []finnhub.EarningRelease) string {
	var dates []string
	for _, r := range releases {
		if d := r.GetDate(); d != "" {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return ""
	}
	sort.Strings(dates)
	return dates[0]
}
