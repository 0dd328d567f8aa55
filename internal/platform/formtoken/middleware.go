package formtoken

import (
	"log/slog"
	"net/http"

	dErrors "covira/pkg/domain-errors"
	"covira/pkg/platform/httputil"
	"covira/pkg/requestcontext"
)

// HeaderName carries the one-time token on state-changing requests.
const HeaderName = "X-Form-Token"

// Require returns middleware that consumes a one-time token on every
// state-changing request it guards; safe methods pass through. Tokens are
// scoped to the acting user, so a token issued to one user cannot be spent
// by another. A nil store disables the check (non-browser deployments).
func Require(store Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			token := r.Header.Get(HeaderName)
			if token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "form token is required"))
				return
			}

			scope := requestcontext.Actor(ctx).ID.String()
			ok, err := store.Consume(ctx, scope, token)
			if err != nil {
				logger.ErrorContext(ctx, "form token check failed",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "token store unavailable"))
				return
			}
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid or expired form token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IssueHandler returns a handler for GET /form-tokens that issues a token
// scoped to the acting user.
func IssueHandler(store Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := store.Issue(ctx, requestcontext.Actor(ctx).ID.String())
		if err != nil {
			logger.ErrorContext(ctx, "form token issue failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "token store unavailable"))
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}
