package company

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

// PostgresStore persists companies in postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a postgres-backed company store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema for reference; migrations own the real DDL.
//
//	CREATE TABLE companies (
//	    id            UUID PRIMARY KEY,
//	    name          TEXT NOT NULL,
//	    owner_user_id UUID NOT NULL,
//	    broker_id     UUID,
//	    created_at    TIMESTAMPTZ NOT NULL
//	);

func (s *PostgresStore) Create(ctx context.Context, company *Company) error {
	query := `
		INSERT INTO companies (id, name, owner_user_id, broker_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	var brokerID any
	if company.BrokerID != nil {
		brokerID = uuid.UUID(*company.BrokerID)
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(company.ID),
		company.Name,
		uuid.UUID(company.OwnerUserID),
		brokerID,
		company.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, companyID id.CompanyID) (*Company, error) {
	query := `
		SELECT id, name, owner_user_id, broker_id, created_at
		FROM companies
		WHERE id = $1
	`
	var (
		company  Company
		rawID    uuid.UUID
		ownerID  uuid.UUID
		brokerID uuid.NullUUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(companyID)).Scan(
		&rawID,
		&company.Name,
		&ownerID,
		&brokerID,
		&company.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company: %w", err)
	}

	company.ID = id.CompanyID(rawID)
	company.OwnerUserID = id.UserID(ownerID)
	if brokerID.Valid {
		b := id.BrokerID(brokerID.UUID)
		company.BrokerID = &b
	}
	return &company, nil
}
