package ai

import (
	"context"
	"errors"
	"strings"
)

type OpenAIProvider struct {
	opts Options
}

func NewOpenAI(opts Options) *OpenAIProvider {
	return &OpenAIProvider{opts: opts}
}

func (p *OpenAIProvider) Name() Name { return OpenAI }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
	Messages    []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Chat(ctx context.Context, message string, history []Turn) (string, error) {
	if p.opts.APIKey == "" {
		return "", errors.New("OpenAI API key missing")
	}

	messages := make([]openAIMessage, 0, len(history)+2)
	messages = append(messages, openAIMessage{Role: "system", Content: SystemPrompt})
	for _, t := range history {
		messages = append(messages, openAIMessage{Role: string(t.Role), Content: t.Content})
	}
	messages = append(messages, openAIMessage{Role: string(RoleUser), Content: message})

	reqBody := openAIRequest{
		Model:       p.opts.Model,
		Temperature: temperature,
		MaxTokens:   p.opts.MaxTokens,
		Messages:    messages,
	}
	headers := map[string]string{"Authorization": "Bearer " + p.opts.APIKey}

	var out openAIResponse
	if err := postJSON(ctx, p.opts, p.opts.endpoint("/v1/chat/completions"), headers, reqBody, &out, "OpenAI request failed"); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
