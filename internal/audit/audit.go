// Package audit appends actor/action/entity records to the audit ledger.
// Writes happen after the business mutation commits and are best-effort: a
// sink failure is logged, never propagated, so an unavailable ledger cannot
// roll back an already-committed operation.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/erazemk/katalog/internal/store"
)

// Record writes one audit record. actorUserID is nil for system-attributed
// actions (e.g. lazy password migration during login). details is serialized
// as JSON.
func Record(ctx context.Context, db *sql.DB, actorUserID *int64, action, entityType string, entityID int64, details map[string]any) {
	var payload string
	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			slog.Error("audit details not serializable", "action", action, "error", err)
		} else {
			payload = string(data)
		}
	}

	if err := store.WriteAuditRecord(ctx, db, actorUserID, action, entityType, entityID, payload); err != nil {
		slog.Error("audit write failed",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}
