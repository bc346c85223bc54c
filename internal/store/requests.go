package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/katalog/internal/apperr"
	"github.com/erazemk/katalog/internal/model"
)

const requestColumns = `id, requested_by_user_id, name, description, status,
	deny_reason, appeal_message, appealed_at, reviewed_by_admin_user_id,
	reviewed_at, created_at, updated_at`

// CreateRequest creates a new item request in the pending state.
func CreateRequest(ctx context.Context, db *sql.DB, requestedBy int64, name, description string) (*model.ItemRequest, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO item_requests (requested_by_user_id, name, description) VALUES (?, ?, ?)`,
		requestedBy, name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting request id: %w", err)
	}

	return GetRequest(ctx, db, id)
}

// GetRequest returns a request by ID, or nil if no such request exists.
func GetRequest(ctx context.Context, db *sql.DB, id int64) (*model.ItemRequest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM item_requests WHERE id = ?`, id,
	)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	return req, nil
}

// ListRequestsByUser returns the requests created by one user, newest first.
func ListRequestsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.ItemRequest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM item_requests
		 WHERE requested_by_user_id = ? ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListRequests returns all requests, newest first.
func ListRequests(ctx context.Context, db *sql.DB) ([]model.ItemRequest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM item_requests ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ApproveRequest transitions a request to approved and materializes the
// catalog item, in a single transaction so that two concurrent approvals
// cannot both create an item. Allowed from pending and from denied (so an
// appeal can be honored without a separate re-opened state). Returns the new
// item's id. The item's created_by_user_id is the original requester, not
// the approving admin.
func ApproveRequest(ctx context.Context, db *sql.DB, requestID, adminID int64) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status model.RequestStatus
	var requestedBy int64
	var name string
	var description sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT status, requested_by_user_id, name, description
		 FROM item_requests WHERE id = ?`, requestID,
	).Scan(&status, &requestedBy, &name, &description)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: request %d", apperr.ErrNotFound, requestID)
	}
	if err != nil {
		return 0, fmt.Errorf("getting request: %w", err)
	}

	if status == model.RequestApproved {
		return 0, fmt.Errorf("%w: request %d is already approved", apperr.ErrInvalidTransition, requestID)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (name, description, created_by_user_id) VALUES (?, ?, ?)`,
		name, description, requestedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("creating item: %w", err)
	}
	itemID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting item id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE item_requests
		 SET status = ?, reviewed_by_admin_user_id = ?, reviewed_at = CURRENT_TIMESTAMP,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		model.RequestApproved, adminID, requestID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing approval: %w", err)
	}
	return itemID, nil
}

// DenyRequest transitions a pending request to denied with a reason. An
// already-denied request cannot be denied again; after an appeal it can only
// be approved.
func DenyRequest(ctx context.Context, db *sql.DB, requestID, adminID int64, reason string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status model.RequestStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM item_requests WHERE id = ?`, requestID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: request %d", apperr.ErrNotFound, requestID)
	}
	if err != nil {
		return fmt.Errorf("getting request: %w", err)
	}

	if status != model.RequestPending {
		return fmt.Errorf("%w: only pending requests can be denied", apperr.ErrInvalidTransition)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE item_requests
		 SET status = ?, deny_reason = ?, reviewed_by_admin_user_id = ?,
		     reviewed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		model.RequestDenied, reason, adminID, requestID,
	)
	if err != nil {
		return fmt.Errorf("updating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing denial: %w", err)
	}
	return nil
}

// AppealRequest attaches an appeal to a denied request. Only the original
// requester may appeal. The status stays denied; the appeal is visible to
// admins for re-review.
func AppealRequest(ctx context.Context, db *sql.DB, requestID, userID int64, message string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status model.RequestStatus
	var requestedBy int64
	err = tx.QueryRowContext(ctx,
		`SELECT status, requested_by_user_id FROM item_requests WHERE id = ?`, requestID,
	).Scan(&status, &requestedBy)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: request %d", apperr.ErrNotFound, requestID)
	}
	if err != nil {
		return fmt.Errorf("getting request: %w", err)
	}

	if requestedBy != userID {
		return fmt.Errorf("%w: only the requester can appeal", apperr.ErrForbidden)
	}
	if status != model.RequestDenied {
		return fmt.Errorf("%w: only denied requests can be appealed", apperr.ErrInvalidTransition)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE item_requests
		 SET appeal_message = ?, appealed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		message, requestID,
	)
	if err != nil {
		return fmt.Errorf("updating request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing appeal: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*model.ItemRequest, error) {
	req := &model.ItemRequest{}
	var description, denyReason, appealMessage sql.NullString
	var appealedAt, reviewedAt sql.NullTime
	var reviewedBy sql.NullInt64

	err := row.Scan(&req.ID, &req.RequestedByUserID, &req.Name, &description,
		&req.Status, &denyReason, &appealMessage, &appealedAt, &reviewedBy,
		&reviewedAt, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}

	req.Description = description.String
	req.DenyReason = denyReason.String
	req.AppealMessage = appealMessage.String
	if appealedAt.Valid {
		req.AppealedAt = &appealedAt.Time
	}
	if reviewedAt.Valid {
		req.ReviewedAt = &reviewedAt.Time
	}
	if reviewedBy.Valid {
		req.ReviewedByAdminUserID = &reviewedBy.Int64
	}
	return req, nil
}

func collectRequests(rows *sql.Rows) ([]model.ItemRequest, error) {
	var requests []model.ItemRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}
