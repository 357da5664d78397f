package eventpublisher

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/metrics"
)

// Outbox buffers events in memory and hands them to a downstream Publisher
// from a background worker, so a slow broker never stalls ingestion.
type Outbox struct {
	publisher Publisher
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	batchSize int
	interval  time.Duration

	mu      sync.Mutex
	pending []*domain.Event
	wake    chan struct{}
}

// Config for Outbox.
type Config struct {
	Publisher Publisher
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics // optional
	BatchSize int              // Number of events to publish per batch
	Interval  time.Duration    // Polling interval
}

// NewOutbox creates a new Outbox.
func NewOutbox(cfg Config) *Outbox {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Second
	}

	return &Outbox{
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
		wake:      make(chan struct{}, 1),
	}
}

// Publish enqueues the event. It never blocks on the downstream publisher.
func (o *Outbox) Publish(_ context.Context, event *domain.Event) error {
	o.mu.Lock()
	o.pending = append(o.pending, event)
	full := len(o.pending) >= o.batchSize
	o.mu.Unlock()

	if full {
		select {
		case o.wake <- struct{}{}:
		default:
		}
	}
	return nil
}

// Pending returns the number of events not yet handed downstream.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Start begins the event publishing worker.
// It runs until the context is cancelled.
func (o *Outbox) Start(ctx context.Context) error {
	o.logger.Info().
		Int("batch_size", o.batchSize).
		Dur("interval", o.interval).
		Msg("event outbox started")

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info().Int("pending", o.Pending()).Msg("event outbox shutting down")
			return ctx.Err()
		case <-ticker.C:
			o.processEvents(ctx)
		case <-o.wake:
			o.processEvents(ctx)
		}
	}
}

// Flush publishes every pending event. Failed events are dropped after logging.
func (o *Outbox) Flush(ctx context.Context) {
	for o.Pending() > 0 && ctx.Err() == nil {
		o.processEvents(ctx)
	}
}

// processEvents publishes one batch of pending events.
func (o *Outbox) processEvents(ctx context.Context) {
	o.mu.Lock()
	n := min(len(o.pending), o.batchSize)
	batch := o.pending[:n:n]
	o.pending = o.pending[n:]
	o.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	o.logger.Debug().Int("count", len(batch)).Msg("processing events")

	for _, event := range batch {
		status := "published"
		if err := o.publisher.Publish(ctx, event); err != nil {
			status = "failed"
			// Continue with the rest of the batch even if one fails
			o.logger.Error().Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
		}
		if o.metrics != nil {
			o.metrics.EventsPublished.WithLabelValues(event.EventType, status).Inc()
		}
	}
}
