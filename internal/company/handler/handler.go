package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"covira/internal/company"
	id "covira/pkg/domain"
	dErrors "covira/pkg/domain-errors"
	"covira/pkg/platform/httputil"
	"covira/pkg/requestcontext"
)

// Service defines the interface for company operations.
type Service interface {
	Create(ctx context.Context, name string, brokerID *id.BrokerID) (*company.CreateResult, error)
}

// Handler wires company endpoints to the company service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a company handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts company endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/companies", h.HandleCreate)
}

// CreateRequest is the body of a company creation.
type CreateRequest struct {
	Name     string `json:"name"`
	BrokerID string `json:"brokerId,omitempty"`

	parsedBrokerID *id.BrokerID
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateRequest) Validate() error {
	if r.BrokerID == "" {
		return nil
	}
	brokerID, err := id.ParseBrokerID(r.BrokerID)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidRequest, "brokerId must be a valid UUID")
	}
	r.parsedBrokerID = &brokerID
	return nil
}

// CreateResponse is the wire shape of a created company.
type CreateResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ApplicationID string `json:"applicationId"`
}

// HandleCreate handles POST /companies.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Create(ctx, req.Name, req.parsedBrokerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, CreateResponse{
		ID:            result.Company.ID.String(),
		Name:          result.Company.Name,
		ApplicationID: result.ApplicationID.String(),
	})
}
