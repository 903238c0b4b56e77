package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultMinChars = 100
	DefaultMaxChars = 4000
	defaultTimeout  = 60 * time.Second
)

const summarySystemPrompt = "You are a helpful financial research assistant."

const articleSummaryPrompt = `Summarize the key financial insights from the following article.
Focus on information relevant to stock analysis, market trends, and economic indicators.
Keep the summary concise (2-3 sentences).

Article Content:
%s`

// ErrSummaryFailed marks a summary that could not be produced because the
// model call failed. It must never be cached.
var ErrSummaryFailed = errors.New("summary generation failed")

type Summarizer struct {
	client   Client
	minChars int
	maxChars int
	timeout  time.Duration
}

type SummarizerOption func(*Summarizer)

func WithMinChars(n int) SummarizerOption {
	return func(s *Summarizer) {
		if n > 0 {
			s.minChars = n
		}
	}
}

func WithMaxChars(n int) SummarizerOption {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

func WithTimeout(d time.Duration) SummarizerOption {
	return func(s *Summarizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewSummarizer(client Client, opts ...SummarizerOption) *Summarizer {
	s := &Summarizer{
		client:   client,
		minChars: DefaultMinChars,
		maxChars: DefaultMaxChars,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize returns a 2-3 sentence financial summary of text.
//
// Text shorter than the minimum yields ("", nil) without calling the model.
// A failed or blank model answer yields an error wrapping ErrSummaryFailed.
func (s *Summarizer) Summarize(ctx context.Context, text string, sourceURL string) (string, error) {
	if len(text) < s.minChars {
		slog.Debug("text too short to summarize", "url", sourceURL, "length", len(text))
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf(articleSummaryPrompt, truncateRunes(text, s.maxChars))

	summary, err := s.client.Complete(ctx, summarySystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSummaryFailed, sourceURL, err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("%w: %s: %w", ErrSummaryFailed, sourceURL, ErrEmptyResponse)
	}

	return summary, nil
}

func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
