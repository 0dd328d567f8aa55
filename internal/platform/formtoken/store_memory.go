package formtoken

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a single-process Store implementation. Expired entries are
// swept lazily on each operation; suitable for dev and tests, use the redis
// store for multi-instance deployments.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]time.Time
	now    func() time.Time
}

// NewMemoryStore creates a memory-backed token store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// WithClock overrides the store clock for expiry tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Issue(_ context.Context, scope string) (string, error) {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.tokens[key(scope, token)] = s.now().Add(s.ttl)
	return token, nil
}

func (s *MemoryStore) Consume(_ context.Context, scope, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()

	k := key(scope, token)
	expiry, ok := s.tokens[k]
	if !ok {
		return false, nil
	}
	delete(s.tokens, k)
	return s.now().Before(expiry), nil
}

// sweep removes expired entries. Must be called while holding s.mu.
func (s *MemoryStore) sweep() {
	now := s.now()
	for k, expiry := range s.tokens {
		if !now.Before(expiry) {
			delete(s.tokens, k)
		}
	}
}

func key(scope, token string) string {
	return scope + ":" + token
}
