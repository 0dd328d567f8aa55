// Package http assembles the HTTP surface: middleware chain, protected
// routes, and operational endpoints.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	companyhandler "covira/internal/company/handler"
	enrollmenthandler "covira/internal/enrollment/handler"
	"covira/internal/platform/formtoken"
	quotehandler "covira/internal/quote/handler"
	"covira/pkg/platform/httputil"
	"covira/pkg/platform/middleware/auth"
	"covira/pkg/platform/middleware/metadata"
	"covira/pkg/platform/middleware/requestid"
	"covira/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger         *slog.Logger
	TokenValidator auth.TokenValidator
	FormTokens     formtoken.Store

	Quotes      *quotehandler.Handler
	Enrollment  *enrollmenthandler.Handler
	Companies   *companyhandler.Handler
	HealthCheck func() error
}

// NewRouter builds the router. Every business route requires a valid bearer
// token; the form-token guard additionally covers state-changing routes when
// a token store is configured.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", handleHealth(deps.HealthCheck))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.TokenValidator, deps.Logger))

		if deps.FormTokens != nil {
			r.Get("/form-tokens", formtoken.IssueHandler(deps.FormTokens, deps.Logger))
		}

		// Quote generation is a pure read in POST clothing; it skips the
		// one-time token guard.
		deps.Quotes.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(formtoken.Require(deps.FormTokens, deps.Logger))
			deps.Enrollment.Register(r)
			deps.Companies.Register(r)
		})
	})

	return r
}

func handleHealth(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
