package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"nemora-backend/internal/models"
)

type TelegramChannel struct {
	apiBaseURL string
	botToken   string
	chatID     string
	httpClient *http.Client
}

func NewTelegramChannel(apiBaseURL, botToken, chatID string, httpClient *http.Client) *TelegramChannel {
	return &TelegramChannel{
		apiBaseURL: strings.TrimSuffix(apiBaseURL, "/"),
		botToken:   botToken,
		chatID:     chatID,
		httpClient: httpClient,
	}
}

func (t *TelegramChannel) Name() string { return ChannelTelegram }

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramError struct {
	Description string `json:"description"`
}

func (t *TelegramChannel) Send(ctx context.Context, order *models.Order, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBaseURL, t.botToken)

	status, body, err := postJSON(ctx, t.httpClient, endpoint, nil, telegramMessage{ChatID: t.chatID, Text: text})
	if err != nil {
		// url.Error repeats the request URL, which carries the bot token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("telegram request failed: %w", urlErr.Err)
		}
		return fmt.Errorf("telegram request failed: %w", err)
	}
	if !isSuccess(status) {
		var apiErr telegramError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Description != "" {
			return fmt.Errorf("telegram returned status %d: %s", status, apiErr.Description)
		}
		return fmt.Errorf("telegram returned status %d", status)
	}
	return nil
}
