package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/katalog/internal/apperr"
	"github.com/erazemk/katalog/internal/model"
)

// WriteAuditRecord appends one record to the audit ledger. actorUserID is nil
// for system-attributed actions. A sink failure wraps apperr.ErrRecording so
// callers can log it without rolling back the mutation that triggered it.
func WriteAuditRecord(ctx context.Context, db *sql.DB, actorUserID *int64, action, entityType string, entityID int64, details string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO audit_log (actor_user_id, action, entity_type, entity_id, details)
		 VALUES (?, ?, ?, ?, ?)`,
		actorUserID, action, entityType, entityID, details,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrRecording, err)
	}
	return nil
}

// ListAuditRecords returns the newest audit records, up to limit.
func ListAuditRecords(ctx context.Context, db *sql.DB, limit int) ([]model.AuditRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, actor_user_id, action, entity_type, entity_id, details, created_at
		 FROM audit_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit records: %w", err)
	}
	defer rows.Close()

	var records []model.AuditRecord
	for rows.Next() {
		var rec model.AuditRecord
		var actor sql.NullInt64
		var details sql.NullString
		if err := rows.Scan(&rec.ID, &actor, &rec.Action, &rec.EntityType, &rec.EntityID, &details, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}
		if actor.Valid {
			rec.ActorUserID = &actor.Int64
		}
		rec.Details = details.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountAuditRecords returns the number of audit records for one entity,
// optionally filtered by action (empty action matches all).
func CountAuditRecords(ctx context.Context, db *sql.DB, entityType string, entityID int64, action string) (int, error) {
	var count int
	var err error
	if action == "" {
		err = db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM audit_log WHERE entity_type = ? AND entity_id = ?`,
			entityType, entityID,
		).Scan(&count)
	} else {
		err = db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM audit_log WHERE entity_type = ? AND entity_id = ? AND action = ?`,
			entityType, entityID, action,
		).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("counting audit records: %w", err)
	}
	return count, nil
}
