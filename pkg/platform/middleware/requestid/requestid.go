// Package requestid assigns each request a correlation ID.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"covira/pkg/requestcontext"
)

// Header is the response header carrying the request ID.
const Header = "X-Request-ID"

// Middleware reuses an inbound request ID when present, otherwise generates
// one, and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
