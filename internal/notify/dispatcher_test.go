package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nemora-backend/internal/config"
	"nemora-backend/internal/models"
	"nemora-backend/internal/notify"
)

type funcChannel struct {
	name string
	fn   func(ctx context.Context) error
}

func (f funcChannel) Name() string { return f.name }
func (f funcChannel) Send(ctx context.Context, _ *models.Order, _ string) error {
	return f.fn(ctx)
}

func TestDispatch_FailingWebhookDoesNotBlockTelegram(t *testing.T) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer webhook.Close()

	var (
		mu       sync.Mutex
		received map[string]string
		path     string
	)
	telegram := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		path = r.URL.Path
		_ = json.Unmarshal(body, &received)
		mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer telegram.Close()

	cfg := &config.Config{
		NotifyWebhookURL:   webhook.URL,
		TelegramBotToken:   "123:abc",
		TelegramChatID:     "-1001",
		TelegramAPIBaseURL: telegram.URL,
	}
	d := notify.FromConfig(cfg, nil, http.DefaultClient, nil)
	assert.Equal(t, []string{notify.ChannelWebhook, notify.ChannelTelegram}, d.Channels())

	results := d.Dispatch(context.Background(), sampleOrder())
	require.Len(t, results, 2)

	assert.Equal(t, notify.ChannelWebhook, results[0].Channel)
	assert.ErrorContains(t, results[0].Err, "status 500")
	assert.Equal(t, notify.ChannelTelegram, results[1].Channel)
	assert.NoError(t, results[1].Err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/bot123:abc/sendMessage", path)
	assert.Equal(t, "-1001", received["chat_id"])
	assert.Contains(t, received["text"], "ID: 1700000000000-abc123")
}

func TestDispatch_OnlyConfiguredChannels(t *testing.T) {
	var calls atomic.Int32
	telegram := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer telegram.Close()

	cfg := &config.Config{
		TelegramBotToken:   "t",
		TelegramChatID:     "c",
		TelegramAPIBaseURL: telegram.URL,
		// SMTP without a recipient stays disabled.
		SMTPHost: "smtp.invalid",
	}
	d := notify.FromConfig(cfg, nil, http.DefaultClient, nil)
	assert.Equal(t, []string{notify.ChannelTelegram}, d.Channels())

	results := d.Dispatch(context.Background(), sampleOrder())
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatch_NoChannels(t *testing.T) {
	d := notify.FromConfig(&config.Config{}, nil, http.DefaultClient, nil)
	assert.Empty(t, d.Channels())
	assert.Nil(t, d.Dispatch(context.Background(), sampleOrder()))
}

func TestDispatch_WebhookPayload(t *testing.T) {
	var (
		mu      sync.Mutex
		auth    string
		payload struct {
			Text  string       `json:"text"`
			Order models.Order `json:"order"`
		}
	)
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhook.Close()

	ch := notify.NewWebhookChannel(webhook.URL, "secret", http.DefaultClient)
	order := sampleOrder()
	require.NoError(t, ch.Send(context.Background(), order, notify.PlainText(order)))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, notify.PlainText(order), payload.Text)
	assert.Equal(t, order.ID, payload.Order.ID)
	assert.Equal(t, "Acme", payload.Order.Details.BrandName)
}

func TestDispatch_SettlesAllChannelsConcurrently(t *testing.T) {
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(3)

	block := func(ctx context.Context) error {
		started.Done()
		<-release
		return nil
	}
	d := notify.NewDispatcher(nil,
		funcChannel{name: "a", fn: func(ctx context.Context) error { started.Done(); return errors.New("boom") }},
		funcChannel{name: "b", fn: block},
		funcChannel{name: "c", fn: func(ctx context.Context) error { started.Done(); panic("bad channel") }},
	)

	done := make(chan []notify.Result)
	go func() { done <- d.Dispatch(context.Background(), sampleOrder()) }()

	// All three must be running at once; a sequential dispatcher would stall here.
	waitCh := make(chan struct{})
	go func() { started.Wait(); close(waitCh) }()
	select {
	case <-waitCh:
	case <-time.After(2 * time.Second):
		t.Fatal("channels were not started concurrently")
	}

	select {
	case <-done:
		t.Fatal("dispatch returned before every channel settled")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	results := <-done
	require.Len(t, results, 3)
	assert.EqualError(t, results[0].Err, "boom")
	assert.NoError(t, results[1].Err)
	assert.ErrorContains(t, results[2].Err, "panicked")
}
