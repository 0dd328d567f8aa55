package quote

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"covira/internal/census"
	quotemetrics "covira/internal/quote/metrics"
	"covira/internal/rating"
)

var tracer = otel.Tracer("covira/quote")

// Service generates quote offers from the rating table, census aggregator,
// and carrier catalog. All collaborators are immutable after construction,
// so Generate is safe to call concurrently across requests.
type Service struct {
	table      *rating.Table
	aggregator census.Aggregator
	catalog    Catalog
	logger     *slog.Logger
	metrics    *quotemetrics.Metrics
}

// NewService constructs a quote service.
func NewService(table *rating.Table, catalog Catalog, logger *slog.Logger, metrics *quotemetrics.Metrics) *Service {
	return &Service{
		table:      table,
		aggregator: census.Aggregator{},
		catalog:    catalog,
		logger:     logger,
		metrics:    metrics,
	}
}

// Generate produces the full list of priced offers for a request. Fails with
// invalid_request for malformed input and rate_not_configured when the
// rating table has no price for a requested (area, coverage) pair - a
// configuration gap must never price as free.
func (s *Service) Generate(ctx context.Context, req Request) ([]Offer, error) {
	ctx, span := tracer.Start(ctx, "quote.Generate")
	defer span.End()
	start := time.Now()

	if err := req.Validate(); err != nil {
		s.metrics.IncrementGenerated("invalid_request")
		return nil, err
	}

	// The +4 extension never affects area resolution.
	area := s.table.AreaForZIP(req.ZIPCode[:5])
	summary := s.aggregator.Aggregate(req.People, req.EffectiveDate)

	span.SetAttributes(
		attribute.Int("rating.area", int(area)),
		attribute.Int("census.members", summary.MemberCount),
	)

	var offers []Offer
	for _, coverage := range req.CoverageTypes {
		base, err := s.table.BaseRate(area, coverage)
		if err != nil {
			s.metrics.IncrementGenerated("rate_not_configured")
			s.logger.WarnContext(ctx, "quote unavailable - rate not configured",
				"area", int(area),
				"coverage_type", string(coverage),
				"zip", req.ZIPCode,
			)
			return nil, err
		}
		offers = append(offers, buildOffers(coverage, base, summary, s.catalog)...)
	}

	s.metrics.IncrementGenerated("ok")
	s.metrics.ObserveGenerateLatency(time.Since(start))
	return offers, nil
}
