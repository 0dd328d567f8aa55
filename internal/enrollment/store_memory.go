package enrollment

import (
	"context"
	"sync"

	id "covira/pkg/domain"
	"covira/pkg/platform/sentinel"
)

// InMemoryStore keeps applications in process memory. The single mutex
// serializes Execute calls, matching the row-lock semantics of the postgres
// store.
type InMemoryStore struct {
	mu   sync.Mutex
	apps map[id.ApplicationID]*Application
}

// NewInMemoryStore creates an empty in-memory application store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{apps: make(map[id.ApplicationID]*Application)}
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.apps[app.ID]; exists {
		return nil
	}
	s.apps[app.ID] = app.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, appID id.ApplicationID) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return app.Clone(), nil
}

func (s *InMemoryStore) Execute(_ context.Context, appID id.ApplicationID,
	validate func(*Application) error,
	mutate func(*Application),
) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	working := app.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.apps[appID] = working
	return working.Clone(), nil
}
