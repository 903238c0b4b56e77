package analyst

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/shopspring/decimal"

	"stockscout/internal/model"
	"stockscout/pkg/llm"
)

type fakeClient struct {
	reply  string
	err    error
	system string
	user   string
}

func (f *fakeClient) Complete(_ context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.reply, f.err
}

func (f *fakeClient) ModelName() string { return "fake-model" }

func ptr(v float64) *float64 { return &v }

func samplePortfolio() model.Portfolio {
	return model.Portfolio{
		Name: "Core",
		Holdings: []model.Holding{
			{Symbol: "AAPL", Quantity: decimal.NewFromInt(10), AvgCost: decimal.NewFromInt(150)},
			{Symbol: "BAD", Quantity: decimal.RequireFromString("2.5"), AvgCost: decimal.NewFromInt(20)},
		},
	}
}

func sampleSnapshot() model.Snapshot {
	long := strings.Repeat("x", 600)
	return model.Snapshot{
		MacroNews: []model.NewsSummary{{Title: "Fed holds rates", Summary: "Rates unchanged."}},
		Symbols: map[string]model.SymbolResearch{
			"AAPL": {
				Price: 227.52,
				Fundamentals: model.Fundamentals{
					Sector:        "Technology",
					MarketCap:     3.4e12,
					PERatio:       ptr(31.5),
					AnalystRating: "buy",
					NextEarnings:  "2026-10-30",
				},
				News: []model.NewsSummary{
					{Title: "One", Summary: long},
					{Title: "", Summary: "two"},
					{Title: "Three", Summary: "three"},
					{Title: "Four", Summary: "four"},
				},
			},
			"BAD": model.DefaultSymbolResearch(),
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(samplePortfolio(), sampleSnapshot())

	assert.Equal(t, true, strings.Contains(prompt, "- Fed holds rates: Rates unchanged."))
	assert.Equal(t, true, strings.Contains(prompt, "--- AAPL ---"))
	assert.Equal(t, true, strings.Contains(prompt, "Position: 10 shares @ $150.00 (Current: $227.52, Unrealized: +51.68%)"))
	assert.Equal(t, true, strings.Contains(prompt, "Valuation: PE=31.50, PEG=n/a, EPS=n/a, MarketCap=3.40T, Sector=Technology"))
	assert.Equal(t, true, strings.Contains(prompt, "Analyst rating: buy"))
	assert.Equal(t, true, strings.Contains(prompt, "Next earnings: 2026-10-30"))
	assert.Equal(t, true, strings.Contains(prompt, "- No Title\n"))
	assert.Equal(t, false, strings.Contains(prompt, "Four"))
	assert.Equal(t, true, strings.Contains(prompt, strings.Repeat("x", 500)+"..."))
	assert.Equal(t, false, strings.Contains(prompt, strings.Repeat("x", 501)))

	assert.Equal(t, true, strings.Contains(prompt, "--- BAD ---"))
	assert.Equal(t, true, strings.Contains(prompt, "Position: 2.5 shares @ $20.00 (Current: $0.00, Unrealized: n/a)"))
	assert.Equal(t, true, strings.Contains(prompt, "No news available."))
}

func TestBuildPromptWithoutMacroNews(t *testing.T) {
	prompt := BuildPrompt(model.Portfolio{}, model.Snapshot{})

	assert.Equal(t, true, strings.Contains(prompt, "No macro news available."))
}

func TestComposeReturnsReport(t *testing.T) {
	client := &fakeClient{reply: "# Report"}

	report, err := NewComposer(client, 0).Compose(context.Background(), samplePortfolio(), sampleSnapshot())

	assert.Equal(t, nil, err)
	assert.Equal(t, "# Report", report)
	assert.Equal(t, analystSystemPrompt, client.system)
	assert.Equal(t, true, strings.Contains(client.user, "--- AAPL ---"))
}

func TestComposeFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}

	_, err := NewComposer(client, 0).Compose(context.Background(), samplePortfolio(), sampleSnapshot())

	assert.Equal(t, true, errors.Is(err, ErrAnalysisFailed))
	assert.Equal(t, true, strings.Contains(err.Error(), "quota exceeded"))
}

func TestComposeBlankReport(t *testing.T) {
	client := &fakeClient{reply: "  "}

	_, err := NewComposer(client, 0).Compose(context.Background(), samplePortfolio(), sampleSnapshot())

	assert.Equal(t, true, errors.Is(err, ErrAnalysisFailed))
	assert.Equal(t, true, errors.Is(err, llm.ErrEmptyResponse))
}

func TestGainPercent(t *testing.T) {
	tests := []struct {
		cost, price string
		want        string
	}{
		{"100", "112.5", "+12.50%"},
		{"100", "80", "-20.00%"},
		{"100", "100", "0.00%"},
		{"0", "10", "n/a"},
		{"10", "0", "n/a"},
	}

	for _, tt := range tests {
		got := gainPercent(decimal.RequireFromString(tt.cost), decimal.RequireFromString(tt.price))
		assert.Equal(t, tt.want, got)
	}
}

func TestMarketCap(t *testing.T) {
	assert.Equal(t, "n/a", marketCap(0))
	assert.Equal(t, "2.50B", marketCap(2.5e9))
	assert.Equal(t, "750.00M", marketCap(7.5e8))
	assert.Equal(t, "5000", marketCap(5000))
}
