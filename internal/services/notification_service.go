package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"nemora-backend/internal/models"
	"nemora-backend/internal/notify"
)

var ErrServiceClosed = errors.New("notification service is shut down")

// Dispatcher is satisfied by *notify.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, order *models.Order) []notify.Result
}

type NotificationOptions struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// NotificationService runs order notifications off the request path on a
// fixed pool of workers fed by a bounded queue.
type NotificationService struct {
	dispatcher Dispatcher
	logger     *zap.Logger
	timeout    time.Duration

	jobs    chan *models.Order
	mu      sync.RWMutex
	closed  bool
	workers sync.WaitGroup
	// overflow tracks jobs that found the queue full.
	overflow sync.WaitGroup
}

func NewNotificationService(dispatcher Dispatcher, logger *zap.Logger, opts NotificationOptions) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize < 0 {
		opts.QueueSize = 0
	}

	s := &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		timeout:    opts.Timeout,
		jobs:       make(chan *models.Order, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		s.workers.Add(1)
		go s.worker()
	}
	return s
}

// Enqueue hands the order to the workers without blocking. When the queue
// is full the order is dispatched on its own goroutine rather than dropped.
func (s *NotificationService) Enqueue(order *models.Order) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrServiceClosed
	}

	select {
	case s.jobs <- order:
	default:
		s.logger.Warn("notification queue full, dispatching directly", zap.String("order_id", order.ID))
		s.overflow.Add(1)
		go func() {
			defer s.overflow.Done()
			s.run(order)
		}()
	}
	return nil
}

func (s *NotificationService) worker() {
	defer s.workers.Done()
	for order := range s.jobs {
		s.run(order)
	}
}

func (s *NotificationService) run(order *models.Order) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notification dispatch panicked", zap.String("order_id", order.ID), zap.Any("panic", r))
		}
	}()

	results := s.dispatcher.Dispatch(ctx, order)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Debug("notifications settled",
		zap.String("order_id", order.ID),
		zap.Int("channels", len(results)),
		zap.Int("failed", failed),
	)
}

// Shutdown stops accepting orders and waits for queued and in-flight
// notifications to finish, or for ctx to expire.
func (s *NotificationService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		s.overflow.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
