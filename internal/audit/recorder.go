package audit

import (
	"context"
	"log/slog"
	"maps"

	auditmetrics "covira/internal/audit/metrics"
	"covira/internal/platform/device"
	"covira/pkg/requestcontext"
)

// Recorder captures audit entries without ever failing the caller: an audit
// sink outage must not block business operations. Append failures are
// logged at error severity and counted so they can be alerted on
// out-of-band.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *auditmetrics.Metrics
}

// NewRecorder constructs a Recorder.
func NewRecorder(store Store, logger *slog.Logger, metrics *auditmetrics.Metrics) *Recorder {
	return &Recorder{store: store, logger: logger, metrics: metrics}
}

// Record appends an entry, defaulting the timestamp and request provenance
// from the context when unset. The raw User-Agent is kept verbatim; a
// normalized device description goes into the details under "device".
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	if entry.IPAddress == "" {
		entry.IPAddress = requestcontext.ClientIP(ctx)
	}
	if entry.UserAgent == "" {
		entry.UserAgent = requestcontext.UserAgent(ctx)
	}
	if entry.UserAgent != "" {
		details := maps.Clone(entry.Details)
		if details == nil {
			details = make(map[string]string, 1)
		}
		if _, ok := details["device"]; !ok {
			details["device"] = device.Describe(entry.UserAgent)
		}
		entry.Details = details
	}

	if err := r.store.Append(ctx, entry); err != nil {
		r.metrics.IncrementAppendFailures()
		r.logger.ErrorContext(ctx, "audit append failed",
			"error", err,
			"action", string(entry.Action),
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	r.metrics.IncrementAppended(string(entry.Action))
}

// List returns the trail for one entity, newest last.
func (r *Recorder) List(ctx context.Context, entityType, entityID string) ([]Entry, error) {
	return r.store.ListByEntity(ctx, entityType, entityID)
}
