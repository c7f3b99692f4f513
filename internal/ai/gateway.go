package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"nemora-backend/internal/config"
)

var (
	ErrNoProvider   = errors.New("No AI provider configured")
	ErrEmptyReply   = errors.New("Empty response from AI provider")
	ErrEmptyMessage = errors.New("Message is required")
)

// Result is the first successful reply and the provider that produced it.
type Result struct {
	Provider Name
	Reply    string
}

// Gateway tries providers one after another until one answers.
type Gateway struct {
	providers map[Name]Provider
	preferred Name
	logger    *zap.Logger
}

func NewGateway(preferred string, logger *zap.Logger, providers ...Provider) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gateway{
		providers: make(map[Name]Provider, len(providers)),
		preferred: ParseProvider(preferred),
		logger:    logger,
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

// FromConfig registers all three adapters. A provider without an API key
// stays in the sequence and fails fast without touching the network.
func FromConfig(cfg *config.Config, httpClient *http.Client, logger *zap.Logger) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.AITimeout}
	}
	return NewGateway(cfg.AIProvider, logger,
		NewClaude(Options{APIKey: cfg.ClaudeAPIKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeAPIBaseURL, MaxTokens: cfg.AIMaxTokens, HTTPClient: httpClient}),
		NewOpenAI(Options{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIAPIBaseURL, MaxTokens: cfg.AIMaxTokens, HTTPClient: httpClient}),
		NewGemini(Options{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiAPIBaseURL, MaxTokens: cfg.AIMaxTokens, HTTPClient: httpClient}),
	)
}

// Sequence is the pinned provider alone, or the default fallback order.
func (g *Gateway) Sequence() []Name {
	if g.preferred != Auto {
		return []Name{g.preferred}
	}
	return DefaultSequence
}

// Chat calls the providers of Sequence strictly in order and returns the
// first non-empty reply. When every provider fails the last error is
// returned; when none could be tried, ErrNoProvider.
func (g *Gateway) Chat(ctx context.Context, message string, history []Turn) (*Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	var lastErr error
	for _, name := range g.Sequence() {
		provider, ok := g.providers[name]
		if !ok {
			continue
		}

		reply, err := provider.Chat(ctx, message, history)
		if err == nil && reply == "" {
			err = ErrEmptyReply
		}
		if err != nil {
			g.logger.Warn("ai provider failed", zap.String("provider", string(name)), zap.Error(err))
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return &Result{Provider: name, Reply: reply}, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoProvider
}
