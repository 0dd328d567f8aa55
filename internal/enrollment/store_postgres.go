package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "covira/pkg/domain"
	"covira/pkg/platform/sentinel"
)

// PostgresStore persists applications in postgres. Execute runs inside a
// transaction with SELECT ... FOR UPDATE so concurrent writers to the same
// application queue on the row lock.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a postgres-backed application store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema for reference; migrations own the real DDL.
//
//	CREATE TABLE applications (
//	    id              UUID PRIMARY KEY,
//	    company_id      UUID NOT NULL,
//	    current_step    TEXT NOT NULL,
//	    completed_steps TEXT[] NOT NULL DEFAULT '{}',
//	    status          TEXT NOT NULL,
//	    signature       TEXT NOT NULL DEFAULT '',
//	    submitted_at    TIMESTAMPTZ,
//	    created_at      TIMESTAMPTZ NOT NULL,
//	    updated_at      TIMESTAMPTZ NOT NULL
//	);

const applicationColumns = `
	id, company_id, current_step, completed_steps, status,
	signature, submitted_at, created_at, updated_at`

func (s *PostgresStore) CreateIfAbsent(ctx context.Context, app *Application) error {
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(app.ID),
		uuid.UUID(app.CompanyID),
		app.CurrentStep,
		pq.Array(app.CompletedSteps),
		string(app.Status),
		app.Signature,
		app.SubmittedAt,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, appID id.ApplicationID) (*Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(appID))
	return scanApplication(row)
}

func (s *PostgresStore) Execute(ctx context.Context, appID id.ApplicationID,
	validate func(*Application) error,
	mutate func(*Application),
) (*Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 FOR UPDATE`
	app, err := scanApplication(tx.QueryRowContext(ctx, query, uuid.UUID(appID)))
	if err != nil {
		return nil, err
	}

	if err := validate(app); err != nil {
		return nil, err
	}
	mutate(app)

	update := `
		UPDATE applications
		SET current_step = $2, completed_steps = $3, status = $4,
		    signature = $5, submitted_at = $6, updated_at = $7
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, update,
		uuid.UUID(app.ID),
		app.CurrentStep,
		pq.Array(app.CompletedSteps),
		string(app.Status),
		app.Signature,
		app.SubmittedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit application update: %w", err)
	}
	return app, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*Application, error) {
	var (
		app         Application
		rawID       uuid.UUID
		companyID   uuid.UUID
		steps       pq.StringArray
		status      string
		submittedAt sql.NullTime
	)
	err := row.Scan(
		&rawID,
		&companyID,
		&app.CurrentStep,
		&steps,
		&status,
		&app.Signature,
		&submittedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan application: %w", err)
	}

	app.ID = id.ApplicationID(rawID)
	app.CompanyID = id.CompanyID(companyID)
	app.CompletedSteps = []string(steps)
	app.Status = Status(status)
	if submittedAt.Valid {
		t := submittedAt.Time
		app.SubmittedAt = &t
	}
	return &app, nil
}
