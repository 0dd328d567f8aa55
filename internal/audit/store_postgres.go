package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "covira/pkg/domain"
	"covira/pkg/platform/sentinel"
)

// PostgresStore persists audit entries using the transactional outbox
// pattern: Append writes a row with a null published_at, and the kafka
// worker ships unpublished rows to the audit topic. Rows are never updated
// beyond the published_at marker and never deleted.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a postgres-backed audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema for reference; migrations own the real DDL.
//
//	CREATE TABLE audit_entries (
//	    id            UUID PRIMARY KEY,
//	    actor_user_id UUID NOT NULL,
//	    action        TEXT NOT NULL,
//	    entity_type   TEXT NOT NULL,
//	    entity_id     TEXT NOT NULL,
//	    details       JSONB,
//	    ip_address    TEXT NOT NULL DEFAULT '',
//	    user_agent    TEXT NOT NULL DEFAULT '',
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    published_at  TIMESTAMPTZ
//	);

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_entries (
			id, actor_user_id, action, entity_type, entity_id,
			details, ip_address, user_agent, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.New(),
		uuid.UUID(entry.ActorUserID),
		string(entry.Action),
		entry.EntityType,
		entry.EntityID,
		details,
		entry.IPAddress,
		entry.UserAgent,
		entry.Timestamp,
	)
	if err != nil {
		return unavailable("insert audit entry", err)
	}
	return nil
}

// unavailable tags a driver failure as a store availability fact while
// keeping the underlying cause in the message for the Recorder's error log.
func unavailable(op string, cause error) error {
	return fmt.Errorf("%s: %v: %w", op, cause, sentinel.ErrUnavailable)
}

func (s *PostgresStore) ListByEntity(ctx context.Context, entityType, entityID string) ([]Entry, error) {
	query := `
		SELECT actor_user_id, action, entity_type, entity_id,
		       details, ip_address, user_agent, created_at
		FROM audit_entries
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// PendingRecord is an unpublished outbox row.
type PendingRecord struct {
	ID    uuid.UUID
	Entry Entry
}

// ListUnpublished returns up to limit rows not yet shipped to kafka, oldest
// first.
func (s *PostgresStore) ListUnpublished(ctx context.Context, limit int) ([]PendingRecord, error) {
	query := `
		SELECT id, actor_user_id, action, entity_type, entity_id,
		       details, ip_address, user_agent, created_at
		FROM audit_entries
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unpublished audit entries: %w", err)
	}
	defer rows.Close()

	var records []PendingRecord
	for rows.Next() {
		var (
			record      PendingRecord
			actorID     uuid.UUID
			action      string
			detailsJSON []byte
		)
		err := rows.Scan(
			&record.ID,
			&actorID,
			&action,
			&record.Entry.EntityType,
			&record.Entry.EntityID,
			&detailsJSON,
			&record.Entry.IPAddress,
			&record.Entry.UserAgent,
			&record.Entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		record.Entry.ActorUserID = id.UserID(actorID)
		record.Entry.Action = Action(action)
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &record.Entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return records, nil
}

// MarkPublished stamps rows as shipped. Idempotent.
func (s *PostgresStore) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE audit_entries SET published_at = NOW()
		WHERE id = ANY($1) AND published_at IS NULL
	`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("mark audit entries published: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			entry       Entry
			actorID     uuid.UUID
			action      string
			detailsJSON []byte
		)
		err := rows.Scan(
			&actorID,
			&action,
			&entry.EntityType,
			&entry.EntityID,
			&detailsJSON,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ActorUserID = id.UserID(actorID)
		entry.Action = Action(action)
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
