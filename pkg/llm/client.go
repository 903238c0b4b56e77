package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Client is a synchronous chat-completion call: one system prompt, one user
// prompt, the assistant's text back.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
	ModelName() string
}

var ErrEmptyResponse = errors.New("empty response from model")

type Options struct {
	Provider string
	Model    string
	APIKey   string
}

// New builds the client for the configured provider. The caller owns the
// returned client for the lifetime of the process.
func New(ctx context.Context, opts Options) (Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("llm: no api key for provider %q", opts.Provider)
	}

	switch strings.ToLower(opts.Provider) {
	case "", "openai":
		return NewOpenAIClient(opts.APIKey, opts.Model), nil
	case "anthropic", "claude":
		return NewAnthropicClient(opts.APIKey, opts.Model), nil
	case "gemini", "google":
		return NewGeminiClient(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Provider)
	}
}

// cleanResponse strips the markdown code fence some models wrap around
// their whole answer.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if nl := strings.Index(content, "\n"); nl >= 0 {
		// drop the info string, e.g. ```markdown
		if !strings.ContainsAny(content[:nl], " \t") {
			content = content[nl+1:]
		}
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
