package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditmetrics "covira/internal/audit/metrics"
)

// OutboxSource is the slice of the postgres store the worker needs.
type OutboxSource interface {
	ListUnpublished(ctx context.Context, limit int) ([]PendingRecord, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Publisher ships a serialized audit entry to the audit topic.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Worker drains the audit outbox into kafka. It runs beside the HTTP server
// and never touches the request path: a broker outage leaves entries
// unpublished in postgres until the next tick.
type Worker struct {
	source    OutboxSource
	publisher Publisher
	logger    *slog.Logger
	metrics   *auditmetrics.Metrics
	batchSize int
	encode    func(Entry) ([]byte, error)
}

// NewWorker constructs an outbox drain worker.
func NewWorker(source OutboxSource, publisher Publisher, logger *slog.Logger, metrics *auditmetrics.Metrics) *Worker {
	return &Worker{
		source:    source,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		batchSize: 100,
		encode:    func(entry Entry) ([]byte, error) { return json.Marshal(entry) },
	}
}

// Run drains the outbox on the given interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.DrainOnce(ctx); err != nil {
				w.logger.ErrorContext(ctx, "audit outbox drain failed", "error", err)
			}
		}
	}
}

// DrainOnce publishes one batch of unpublished entries. Publish failures are
// counted and skipped; the failed rows stay in the outbox for the next pass.
// A row that cannot be serialized will never succeed, so it is logged and
// marked published instead of being retried on every tick.
func (w *Worker) DrainOnce(ctx context.Context) error {
	records, err := w.source.ListUnpublished(ctx, w.batchSize)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	shipped := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		payload, err := w.encode(record.Entry)
		if err != nil {
			w.metrics.IncrementPublishErrors()
			w.logger.ErrorContext(ctx, "audit entry marshal failed, dropping row", "error", err, "entry_id", record.ID)
			shipped = append(shipped, record.ID)
			continue
		}
		if err := w.publisher.Publish(ctx, record.Entry.EntityID, payload); err != nil {
			w.metrics.IncrementPublishErrors()
			w.logger.ErrorContext(ctx, "audit publish failed", "error", err, "entry_id", record.ID)
			continue
		}
		w.metrics.IncrementPublished()
		shipped = append(shipped, record.ID)
	}

	return w.source.MarkPublished(ctx, shipped)
}
