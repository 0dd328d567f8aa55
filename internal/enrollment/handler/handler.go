package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"covira/internal/audit"
	"covira/internal/enrollment"
	id "covira/pkg/domain"
	dErrors "covira/pkg/domain-errors"
	"covira/pkg/platform/httputil"
	"covira/pkg/requestcontext"
)

// Service defines the interface for enrollment operations.
type Service interface {
	EnsureOpen(ctx context.Context, appID id.ApplicationID, companyID id.CompanyID) error
	Advance(ctx context.Context, appID id.ApplicationID, step string) (*enrollment.Application, error)
	Submit(ctx context.Context, appID id.ApplicationID, signature string) (*enrollment.Application, error)
	Get(ctx context.Context, appID id.ApplicationID) (*enrollment.View, error)
}

// Handler wires application endpoints to the enrollment service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an enrollment handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts application endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications/{applicationID}/steps/{step}", h.HandleStep)
	r.Post("/applications/{applicationID}/submit", h.HandleSubmit)
	r.Get("/applications/{applicationID}", h.HandleGet)
}

// HandleStep handles POST /applications/{applicationID}/steps/{step}.
// The body is optional; when it carries a companyId, a missing application
// is opened implicitly before the step is recorded.
func (h *Handler) HandleStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	step := chi.URLParam(r, "step")

	var req StepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !req.ParsedCompanyID().IsNil() {
		if err := h.service.EnsureOpen(ctx, appID, req.ParsedCompanyID()); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	app, err := h.service.Advance(ctx, appID, step)
	if err != nil {
		h.logger.WarnContext(ctx, "step not recorded",
			"request_id", requestID,
			"application_id", appID.String(),
			"step", step,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleSubmit handles POST /applications/{applicationID}/submit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := h.service.Submit(ctx, appID, req.Signature)
	if err != nil {
		h.logger.WarnContext(ctx, "submission rejected",
			"request_id", requestID,
			"application_id", appID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application submitted",
		"request_id", requestID,
		"application_id", appID.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// ViewResponse is the wire shape of an application with its audit trail.
type ViewResponse struct {
	Application ApplicationResponse `json:"application"`
	AuditTrail  []audit.Entry       `json:"auditTrail"`
}

// HandleGet handles GET /applications/{applicationID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Get(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ViewResponse{
		Application: FromApplication(view.Application),
		AuditTrail:  view.AuditTrail,
	})
}

func (h *Handler) applicationID(w http.ResponseWriter, r *http.Request) (id.ApplicationID, bool) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "applicationID must be a valid UUID"))
		return id.ApplicationID{}, false
	}
	return appID, true
}
