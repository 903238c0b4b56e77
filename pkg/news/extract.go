package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	readability "github.com/go-shiori/go-readability"
)

const (
	BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36"

	extractorTimeout = 10 * time.Second
	maxBodyBytes     = 5 << 20
)

// Extractor downloads an article and returns its main text. Every failure
// yields an empty string; there are no retries.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
}

func NewExtractor(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = extractorTimeout
	}
	return &Extractor{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  BrowserUserAgent,
	}
}

func (e *Extractor) Extract(ctx context.Context, pageURL string) string {
	text, err := e.extract(ctx, pageURL)
	if err != nil {
		slog.Warn("content extraction failed", "url", pageURL, "error", err)
		return ""
	}
	return text
}

func (e *Extractor) extract(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return "", fmt.Errorf("unsupported content type %q", ct)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxBodyBytes), parsed)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}

	text := cleanText(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable text")
	}

	return text, nil
}

// cleanText drops control characters and collapses every whitespace run into
// a single space.
func cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
