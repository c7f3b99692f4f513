package ai

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type GeminiProvider struct {
	opts Options
}

func NewGemini(opts Options) *GeminiProvider {
	return &GeminiProvider{opts: opts}
}

func (p *GeminiProvider) Name() Name { return Gemini }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction geminiContent   `json:"systemInstruction"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProvider) Chat(ctx context.Context, message string, history []Turn) (string, error) {
	if p.opts.APIKey == "" {
		return "", errors.New("Gemini API key missing")
	}

	contents := make([]geminiContent, 0, len(history)+1)
	for _, t := range history {
		role := "user"
		if t.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: t.Content}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})

	reqBody := geminiRequest{
		Contents:          contents,
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: SystemPrompt}}},
	}
	reqBody.GenerationConfig.Temperature = temperature
	reqBody.GenerationConfig.MaxOutputTokens = p.opts.MaxTokens

	// The key travels in a header so it never shows up in logged request URLs.
	endpoint := p.opts.endpoint(fmt.Sprintf("/v1beta/models/%s:generateContent", url.PathEscape(p.opts.Model)))
	headers := map[string]string{"x-goog-api-key": p.opts.APIKey}

	var out geminiResponse
	if err := postJSON(ctx, p.opts, endpoint, headers, reqBody, &out, "Gemini request failed"); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
