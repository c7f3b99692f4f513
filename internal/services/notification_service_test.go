package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nemora-backend/internal/models"
	"nemora-backend/internal/notify"
	"nemora-backend/internal/services"
)

type countingDispatcher struct {
	mu       sync.Mutex
	ids      []string
	release  chan struct{}
	deadline bool
}

func (d *countingDispatcher) Dispatch(ctx context.Context, order *models.Order) []notify.Result {
	if d.release != nil {
		<-d.release
	}
	_, hasDeadline := ctx.Deadline()
	d.mu.Lock()
	d.ids = append(d.ids, order.ID)
	d.deadline = hasDeadline
	d.mu.Unlock()
	return []notify.Result{{Channel: notify.ChannelWebhook}}
}

func (d *countingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.ids)
}

func TestNotificationService_DrainsOnShutdown(t *testing.T) {
	d := &countingDispatcher{}
	s := services.NewNotificationService(d, nil, services.NotificationOptions{Workers: 2, QueueSize: 10, Timeout: time.Second})

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Enqueue(&models.Order{ID: string(rune('a' + i))}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	assert.Equal(t, 5, d.count())
	assert.True(t, d.deadline, "each dispatch should carry the per-order timeout")
}

func TestNotificationService_EnqueueNeverBlocks(t *testing.T) {
	d := &countingDispatcher{release: make(chan struct{})}
	s := services.NewNotificationService(d, nil, services.NotificationOptions{Workers: 1, QueueSize: 1})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = s.Enqueue(&models.Order{ID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	close(d.release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.Equal(t, 10, d.count(), "overflowed orders must still be dispatched")
}

func TestNotificationService_RejectsAfterShutdown(t *testing.T) {
	s := services.NewNotificationService(&countingDispatcher{}, nil, services.NotificationOptions{Workers: 1})
	require.NoError(t, s.Shutdown(context.Background()))

	assert.ErrorIs(t, s.Enqueue(&models.Order{ID: "late"}), services.ErrServiceClosed)
	assert.NoError(t, s.Shutdown(context.Background()))
}

type panickyDispatcher struct{ calls int32 }

func (p *panickyDispatcher) Dispatch(ctx context.Context, order *models.Order) []notify.Result {
	atomic.AddInt32(&p.calls, 1)
	panic("boom")
}

func TestNotificationService_SurvivesPanics(t *testing.T) {
	p := &panickyDispatcher{}
	s := services.NewNotificationService(p, nil, services.NotificationOptions{Workers: 1, QueueSize: 4})

	require.NoError(t, s.Enqueue(&models.Order{ID: "1"}))
	require.NoError(t, s.Enqueue(&models.Order{ID: "2"}))
	require.NoError(t, s.Shutdown(context.Background()))

	assert.EqualValues(t, 2, atomic.LoadInt32(&p.calls))
}
