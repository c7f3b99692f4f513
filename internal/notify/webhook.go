package notify

import (
	"context"
	"fmt"
	"net/http"

	"nemora-backend/internal/models"
)

type WebhookChannel struct {
	url        string
	token      string
	httpClient *http.Client
}

func NewWebhookChannel(url, token string, httpClient *http.Client) *WebhookChannel {
	return &WebhookChannel{url: url, token: token, httpClient: httpClient}
}

func (w *WebhookChannel) Name() string { return ChannelWebhook }

type webhookPayload struct {
	Text  string        `json:"text"`
	Order *models.Order `json:"order"`
}

func (w *WebhookChannel) Send(ctx context.Context, order *models.Order, text string) error {
	headers := map[string]string{}
	if w.token != "" {
		headers["Authorization"] = "Bearer " + w.token
	}

	status, body, err := postJSON(ctx, w.httpClient, w.url, headers, webhookPayload{Text: text, Order: order})
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return fmt.Errorf("webhook returned status %d: %s", status, string(body))
	}
	return nil
}
