// Package auth resolves the authenticated actor for each request.
//
// There is no fallback actor for unauthenticated requests: a request without
// a valid bearer token is rejected with 401. Downstream authorization always
// operates on a real, freshly resolved actor.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	id "covira/pkg/domain"
	"covira/pkg/requestcontext"
)

// Claims represents the identity claims we expect from the token validator.
type Claims struct {
	UserID   string
	Role     string
	BrokerID string
}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// RequireAuth validates the bearer token and injects the resolved actor into
// the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			actor, err := actorFromClaims(claims)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed claims",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}

func actorFromClaims(claims *Claims) (id.Actor, error) {
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return id.Actor{}, err
	}
	actor := id.Actor{
		ID:   userID,
		Role: id.Role(claims.Role),
	}
	if claims.BrokerID != "" {
		brokerID, err := id.ParseBrokerID(claims.BrokerID)
		if err != nil {
			return id.Actor{}, err
		}
		actor.BrokerID = brokerID
	}
	return actor, nil
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
