package enrollment

import (
	"context"

	id "covira/pkg/domain"
)

// Store persists applications.
//
// Execute loads the application, holds its lock across validate and mutate,
// and persists the result: concurrent Advance and Submit calls on one
// application are serialized, while different applications proceed
// independently. The memory store uses a per-store mutex; the postgres store
// uses SELECT ... FOR UPDATE inside a transaction.
type Store interface {
	// CreateIfAbsent inserts the application unless one with the same ID
	// already exists, in which case the existing record wins.
	CreateIfAbsent(ctx context.Context, app *Application) error

	FindByID(ctx context.Context, appID id.ApplicationID) (*Application, error)

	// Execute returns the mutated application. A validate error aborts
	// without mutating; sentinel.ErrNotFound surfaces for unknown IDs.
	Execute(ctx context.Context, appID id.ApplicationID,
		validate func(*Application) error,
		mutate func(*Application)) (*Application, error)
}
