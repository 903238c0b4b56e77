package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGoClient queries the DuckDuckGo HTML endpoint, which needs no API
// key, and scrapes the organic results.
type DuckDuckGoClient struct {
	httpClient *http.Client
	userAgent  string
}

func NewDuckDuckGoClient(timeout time.Duration) *DuckDuckGoClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DuckDuckGoClient{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  BrowserUserAgent,
	}
}

func (c *DuckDuckGoClient) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	endpoint := duckDuckGoEndpoint + "?" + url.Values{"q": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo fetch: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo parse: %w", err)
	}

	var results []SearchResult
	doc.Find("div.result").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}

		anchor := s.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}

		target := unwrapRedirect(href)
		if target == "" {
			return true
		}

		results = append(results, SearchResult{
			Title:   strings.TrimSpace(anchor.Text()),
			URL:     target,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})

		return maxResults <= 0 || len(results) < maxResults
	})

	return results, nil
}

// unwrapRedirect turns DuckDuckGo's //duckduckgo.com/l/?uddg=<target> links
// into the target URL.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if strings.Contains(parsed.Host, "duckduckgo.com") {
		if target := parsed.Query().Get("uddg"); target != "" {
			return target
		}
		return ""
	}

	return parsed.String()
}
