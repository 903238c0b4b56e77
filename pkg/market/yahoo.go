package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"stockscout/internal/model"
	"stockscout/pkg/news"
)

const (
	yahooChartEndpoint  = "https://query1.finance.yahoo.com/v8/finance/chart/"
	yahooSearchEndpoint = "https://query1.finance.yahoo.com/v1/finance/search"
	yahooTimeout        = 10 * time.Second
)

// YahooClient reads Yahoo Finance's public JSON endpoints. It needs no API
// key and is the only provider with news for index tickers such as ^GSPC.
type YahooClient struct {
	httpClient *http.Client
}

func NewYahooClient() *YahooClient {
	return &YahooClient{httpClient: &http.Client{Timeout: yahooTimeout}}
}

func (c *YahooClient) Name() string {
	return "yahoo"
}

func (c *YahooClient) Quote(ctx context.Context, symbol string) (float64, error) {
	doc, err := c.chart(ctx, symbol)
	if err != nil {
		return 0, err
	}

	v, err := jsonpath.Get("$.chart.result[0].meta.regularMarketPrice", doc)
	if err != nil {
		return 0, fmt.Errorf("yahoo quote %s: %w", symbol, ErrUnknownSymbol)
	}

	price, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("yahoo quote %s: unexpected price %v", symbol, v)
	}

	return price, nil
}

// Fundamentals only carries what the chart metadata exposes; valuation
// metrics need Finnhub.
func (c *YahooClient) Fundamentals(ctx context.Context, symbol string) (model.Fundamentals, error) {
	doc, err := c.chart(ctx, symbol)
	if err != nil {
		return model.Fundamentals{}, err
	}

	meta, err := jsonpath.Get("$.chart.result[0].meta", doc)
	if err != nil {
		return model.Fundamentals{}, fmt.Errorf("yahoo fundamentals %s: %w", symbol, ErrUnknownSymbol)
	}

	m, _ := meta.(map[string]interface{})
	f := model.Fundamentals{
		Name:     stringField(m, "longName", "shortName"),
		Exchange: stringField(m, "fullExchangeName", "exchangeName"),
	}
	return f, nil
}

func (c *YahooClient) News(ctx context.Context, symbol string, limit int) ([]news.RawItem, error) {
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{
		"q":           {symbol},
		"newsCount":   {fmt.Sprint(limit)},
		"quotesCount": {"0"},
	}

	var raw struct {
		News []json.RawMessage `json:"news"`
	}
	if err := c.getJSON(ctx, yahooSearchEndpoint+"?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("yahoo news %s: %w", symbol, err)
	}

	items := make([]news.RawItem, 0, len(raw.News))
	for _, data := range raw.News {
		if item := news.DecodeYahooItem(data); item != nil {
			items = append(items, item)
		}
	}

	return items, nil
}

func (c *YahooClient) chart(ctx context.Context, symbol string) (interface{}, error) {
	endpoint := yahooChartEndpoint + url.PathEscape(symbol) + "?interval=1d&range=1d"

	var doc interface{}
	if err := c.getJSON(ctx, endpoint, &doc); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	return doc, nil
}

func (c *YahooClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", news.BrowserUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUnknownSymbol
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func stringField(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
