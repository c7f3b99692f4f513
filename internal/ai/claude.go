package ai

import (
	"context"
	"errors"
	"strings"
)

const anthropicVersion = "2023-06-01"

type ClaudeProvider struct {
	opts Options
}

func NewClaude(opts Options) *ClaudeProvider {
	return &ClaudeProvider{opts: opts}
}

func (p *ClaudeProvider) Name() Name { return Claude }

type claudeRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	System      string  `json:"system"`
	Messages    []Turn  `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *ClaudeProvider) Chat(ctx context.Context, message string, history []Turn) (string, error) {
	if p.opts.APIKey == "" {
		return "", errors.New("Claude API key missing")
	}

	messages := make([]Turn, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Turn{Role: RoleUser, Content: message})

	reqBody := claudeRequest{
		Model:       p.opts.Model,
		MaxTokens:   p.opts.MaxTokens,
		Temperature: temperature,
		System:      SystemPrompt,
		Messages:    messages,
	}
	headers := map[string]string{
		"x-api-key":         p.opts.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var out claudeResponse
	if err := postJSON(ctx, p.opts, p.opts.endpoint("/v1/messages"), headers, reqBody, &out, "Claude request failed"); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, part := range out.Content {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
