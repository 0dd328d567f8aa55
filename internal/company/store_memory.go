package company

import (
	"context"
	"sync"

	id "covira/pkg/domain"
	"covira/pkg/platform/sentinel"
)

// InMemoryStore keeps companies in process memory for dev and tests.
type InMemoryStore struct {
	mu        sync.RWMutex
	companies map[id.CompanyID]*Company
}

// NewInMemoryStore creates an empty in-memory company store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{companies: make(map[id.CompanyID]*Company)}
}

func (s *InMemoryStore) Create(_ context.Context, company *Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[company.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *company
	s.companies[company.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, companyID id.CompanyID) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, ok := s.companies[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *company
	return &clone, nil
}
