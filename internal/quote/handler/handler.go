package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"covira/internal/quote"
	"covira/pkg/platform/httputil"
	"covira/pkg/requestcontext"
)

// Service defines the interface for quote generation.
type Service interface {
	Generate(ctx context.Context, req quote.Request) ([]quote.Offer, error)
}

// Handler wires the quote endpoint to the quote service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a quote handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the quote endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/quotes", h.HandleGenerate)
}

// HandleGenerate handles POST /quotes.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[GenerateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	offers, err := h.service.Generate(ctx, req.Parsed())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "quotes generated",
		"request_id", requestID,
		"zip", req.ZIPCode,
		"offer_count", len(offers),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, GenerateResponse{Offers: offers})
}
