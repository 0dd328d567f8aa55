// Package formtoken issues one-time tokens for browser form submissions.
//
// The store replaces the process-wide mutable token maps found in earlier
// iterations of this platform: lifecycle is explicit (constructor-injected,
// TTL-evicted) so request handling and tests own their state. A token is
// valid for exactly one Consume within its TTL.
package formtoken

import "context"

// Store issues and consumes one-time tokens scoped to a logical form.
type Store interface {
	// Issue creates a token for the given scope (typically user+form).
	Issue(ctx context.Context, scope string) (string, error)
	// Consume atomically checks and invalidates a token. Returns false for
	// unknown, expired, or already consumed tokens.
	Consume(ctx context.Context, scope, token string) (bool, error)
}
