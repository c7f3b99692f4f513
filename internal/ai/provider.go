package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Name identifies an upstream model provider.
type Name string

const (
	Claude Name = "claude"
	OpenAI Name = "openai"
	Gemini Name = "gemini"
	Auto   Name = "auto"
)

// DefaultSequence is the fallback order used when no provider is pinned.
var DefaultSequence = []Name{Claude, OpenAI, Gemini}

const temperature = 0.6

// SystemPrompt is sent with every request, whatever the provider.
var SystemPrompt = strings.Join([]string{
	"You are Nemora AI assistant for a fashion and apparel brand.",
	"Answer the user question clearly and helpfully.",
	`Always respond in two sections labeled "Arabic:" and "English:".`,
	"Keep both sections consistent and concise.",
}, " ")

// ParseProvider maps a configured provider name, including common aliases,
// to a provider. Anything unrecognized means Auto.
func ParseProvider(value string) Name {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "openai", "gpt", "chatgpt":
		return OpenAI
	case "claude", "anthropic":
		return Claude
	case "gemini", "google":
		return Gemini
	default:
		return Auto
	}
}

// Provider sends one chat exchange to an upstream model.
type Provider interface {
	Name() Name
	Chat(ctx context.Context, message string, history []Turn) (string, error)
}

// Options configures a provider adapter.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxTokens  int
	HTTPClient *http.Client
}

func (o Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return http.DefaultClient
}

func (o Options) endpoint(path string) string {
	return strings.TrimSuffix(o.BaseURL, "/") + path
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// postJSON issues one request and decodes a 2xx body into out. On any other
// status it returns the provider's error.message, or fallback when the
// body has none.
func postJSON(ctx context.Context, opts Options, url string, headers map[string]string, body, out any, fallback string) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return errors.New(apiErr.Error.Message)
		}
		return errors.New(fallback)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
