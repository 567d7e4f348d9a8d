package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// NotifierFacade exposes the subset of application functionality required by the dispatcher.
type NotifierFacade interface {
	NotificationsForDispatch(ctx context.Context, limit int) ([]model.Notification, error)
	NotificationRecipientEmail(ctx context.Context, n model.Notification) (string, error)
	DeliverEmail(ctx context.Context, to, subject, body string) (string, error)
	MarkNotificationSent(ctx context.Context, id int64) error
	MarkNotificationFailed(ctx context.Context, id int64) error
}

// Dispatcher polls the notification queue and delivers email concurrently.
type Dispatcher struct {
	facade       NotifierFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Notification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewDispatcher constructs the notification dispatch worker pool.
func NewDispatcher(facade NotifierFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Dispatcher{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Notification, batchSize*workers),
	}
}

// Start launches background dispatching.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndDispatch(ctx)
		}
	}
}

func (d *Dispatcher) fetchAndDispatch(ctx context.Context) {
	batch, err := d.facade.NotificationsForDispatch(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("fetch notifications for dispatch failed", slog.String("error", err.Error()))
		return
	}
	for _, n := range batch {
		select {
		case <-ctx.Done():
			return
		case d.jobs <- n:
		}
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handleNotification(ctx, n)
		}
	}
}

func (d *Dispatcher) handleNotification(ctx context.Context, n model.Notification) {
	recipient, err := d.facade.NotificationRecipientEmail(ctx, n)
	if err != nil {
		d.logger.Error("resolve notification recipient failed",
			slog.Int64("notification", n.ID), slog.String("error", err.Error()))
		d.markFailed(ctx, n.ID)
		return
	}

	if _, err := d.facade.DeliverEmail(ctx, recipient, n.Subject, n.Body); err != nil {
		if errors.Is(err, domainErrors.ErrMailerNotConfigured) {
			// Leave the row failed but do not spam logs at error level;
			// without a provider nothing in the queue can ever go out.
			d.logger.Warn("notification dispatch skipped", slog.Int64("notification", n.ID))
		} else {
			d.logger.Error("notification delivery failed",
				slog.Int64("notification", n.ID), slog.String("error", err.Error()))
		}
		d.markFailed(ctx, n.ID)
		return
	}

	if err := d.facade.MarkNotificationSent(ctx, n.ID); err != nil {
		d.logger.Error("mark notification sent failed",
			slog.Int64("notification", n.ID), slog.String("error", err.Error()))
	}
}

func (d *Dispatcher) markFailed(ctx context.Context, id int64) {
	if err := d.facade.MarkNotificationFailed(ctx, id); err != nil {
		d.logger.Error("mark notification failed failed",
			slog.Int64("notification", id), slog.String("error", err.Error()))
	}
}
