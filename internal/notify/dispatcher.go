package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"nemora-backend/internal/config"
	"nemora-backend/internal/models"
)

// Result is the outcome of one channel for one order.
type Result struct {
	Channel string
	Err     error
}

// Dispatcher fans an order out to every configured channel.
type Dispatcher struct {
	channels []Channel
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger, channels ...Channel) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{channels: channels, logger: logger}
}

// FromConfig enables each channel whose configuration is present. Channels
// left unconfigured are never constructed and never called.
func FromConfig(cfg *config.Config, resolver UploadResolver, httpClient *http.Client, logger *zap.Logger) *Dispatcher {
	var channels []Channel
	if cfg.WebhookEnabled() {
		channels = append(channels, NewWebhookChannel(cfg.NotifyWebhookURL, cfg.NotifyWebhookToken, httpClient))
	}
	if cfg.TelegramEnabled() {
		channels = append(channels, NewTelegramChannel(cfg.TelegramAPIBaseURL, cfg.TelegramBotToken, cfg.TelegramChatID, httpClient))
	}
	if cfg.EmailEnabled() {
		from := cfg.EmailFrom
		if from == "" {
			from = cfg.SMTPUser
		}
		dialer := NewSMTPDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPSecure)
		channels = append(channels, NewEmailChannel(dialer, resolver, EmailOptions{
			To:      cfg.EmailTo,
			From:    from,
			ReplyTo: cfg.EmailReplyTo,
		}))
	}
	return NewDispatcher(logger, channels...)
}

// Channels returns the names of the enabled channels.
func (d *Dispatcher) Channels() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name()
	}
	return names
}

// Dispatch starts every channel at once and waits for all of them to
// settle. A failing channel never stops or fails its siblings, and Dispatch
// itself never fails: each error is logged and reported in the results.
func (d *Dispatcher) Dispatch(ctx context.Context, order *models.Order) []Result {
	if len(d.channels) == 0 {
		return nil
	}

	text := PlainText(order)
	results := make([]Result, len(d.channels))

	var wg sync.WaitGroup
	for i, ch := range d.channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			results[i] = Result{Channel: ch.Name(), Err: d.send(ctx, ch, order, text)}
		}(i, ch)
	}
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			d.logger.Warn("notification failed",
				zap.String("channel", r.Channel),
				zap.String("order_id", order.ID),
				zap.Error(r.Err),
			)
			continue
		}
		d.logger.Info("notification sent",
			zap.String("channel", r.Channel),
			zap.String("order_id", order.ID),
		)
	}
	return results
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, order *models.Order, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel %s panicked: %v", ch.Name(), r)
		}
	}()
	return ch.Send(ctx, order, text)
}
