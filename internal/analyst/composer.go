package analyst

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockscout/internal/model"
	"stockscout/pkg/llm"
)

const (
	maxNewsPerSymbol = 3
	maxNewsChars     = 500
	defaultTimeout   = 120 * time.Second
)

// ErrAnalysisFailed wraps the failure of the final report call.
var ErrAnalysisFailed = errors.New("analysis failed")

type Composer struct {
	client  llm.Client
	timeout time.Duration
}

func NewComposer(client llm.Client, timeout time.Duration) *Composer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Composer{client: client, timeout: timeout}
}

func (c *Composer) ModelName() string {
	return c.client.ModelName()
}

func (c *Composer) Compose(ctx context.Context, portfolio model.Portfolio, snapshot model.Snapshot) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	report, err := c.client.Complete(ctx, analystSystemPrompt, BuildPrompt(portfolio, snapshot))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	if strings.TrimSpace(report) == "" {
		return "", fmt.Errorf("%w: %w", ErrAnalysisFailed, llm.ErrEmptyResponse)
	}
	return report, nil
}

func BuildPrompt(portfolio model.Portfolio, snapshot model.Snapshot) string {
	return fmt.Sprintf(analystPrompt, formatMacroNews(snapshot.MacroNews), formatPortfolio(portfolio, snapshot.Symbols))
}

func formatMacroNews(items []model.NewsSummary) string {
	if len(items) == 0 {
		return "No macro news available."
	}

	var sb strings.Builder
	for _, n := range items {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", titleOrDefault(n.Title), n.Summary))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatPortfolio(portfolio model.Portfolio, research map[string]model.SymbolResearch) string {
	var sb strings.Builder
	for _, h := range portfolio.Holdings {
		data, ok := research[h.Symbol]
		if !ok {
			data = model.DefaultSymbolResearch()
		}
		price := decimal.NewFromFloat(data.Price)
		f := data.Fundamentals

		sb.WriteString(fmt.Sprintf("\n--- %s ---\n", h.Symbol))
		sb.WriteString(fmt.Sprintf("Position: %s shares @ $%s (Current: $%s, Unrealized: %s)\n",
			h.Quantity.String(), h.AvgCost.StringFixed(2), price.StringFixed(2), gainPercent(h.AvgCost, price)))
		sb.WriteString(fmt.Sprintf("Valuation: PE=%s, PEG=%s, EPS=%s, MarketCap=%s, Sector=%s\n",
			ratio(f.PERatio), ratio(f.PEGRatio), ratio(f.EPS), marketCap(f.MarketCap), orNA(f.Sector)))
		sb.WriteString(fmt.Sprintf("Analyst rating: %s\n", orNA(f.AnalystRating)))
		sb.WriteString(fmt.Sprintf("Next earnings: %s\n", orNA(f.NextEarnings)))

		if len(data.News) == 0 {
			sb.WriteString("No news available.\n")
			continue
		}

		sb.WriteString("News Headlines:\n")
		for i, n := range data.News {
			if i == maxNewsPerSymbol {
				break
			}
			sb.WriteString(fmt.Sprintf("- %s\n", titleOrDefault(n.Title)))
			sb.WriteString(fmt.Sprintf("  Summary/Excerpt: %s\n", excerpt(n.Summary)))
		}
	}
	return sb.String()
}

// gainPercent is the unrealised gain of price over cost, e.g. "+12.50%".
func gainPercent(cost, price decimal.Decimal) string {
	if cost.IsZero() || price.IsZero() {
		return "n/a"
	}
	pct := price.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).Round(2)
	if pct.IsPositive() {
		return "+" + pct.StringFixed(2) + "%"
	}
	return pct.StringFixed(2) + "%"
}

func ratio(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

func marketCap(v float64) string {
	if v <= 0 {
		return "n/a"
	}
	d := decimal.NewFromFloat(v)
	units := []struct {
		suffix string
		size   decimal.Decimal
	}{
		{"T", decimal.New(1, 12)},
		{"B", decimal.New(1, 9)},
		{"M", decimal.New(1, 6)},
	}
	for _, u := range units {
		if d.GreaterThanOrEqual(u.size) {
			return d.Div(u.size).StringFixed(2) + u.suffix
		}
	}
	return d.StringFixed(0)
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= maxNewsChars {
		return s
	}
	return string(r[:maxNewsChars]) + "..."
}

func titleOrDefault(title string) string {
	if title == "" {
		return "No Title"
	}
	return title
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
