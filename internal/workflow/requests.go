// Package workflow owns the item-request lifecycle and the audited catalog
// mutations it produces. Every operation takes the acting identity explicitly
// and reports failures through the apperr taxonomy.
package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/katalog/internal/apperr"
	"github.com/erazemk/katalog/internal/audit"
	"github.com/erazemk/katalog/internal/identity"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

// CreateRequest files a new item request for the actor. The name must be at
// least 2 characters after trimming.
func CreateRequest(ctx context.Context, db *sql.DB, actor identity.Identity, name, description string) (*model.ItemRequest, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: name is required (min 2 chars)", apperr.ErrValidation)
	}

	req, err := store.CreateRequest(ctx, db, actor.UserID, name, strings.TrimSpace(description))
	if err != nil {
		return nil, err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditCreateRequest, model.EntityItemRequest, req.ID,
		map[string]any{"name": req.Name})
	return req, nil
}

// ApproveRequest approves a pending or denied request, materializing the
// catalog item with the original requester as its author. Returns the new
// item's id. Approval is terminal: an approved request cannot transition
// again.
func ApproveRequest(ctx context.Context, db *sql.DB, actor identity.Identity, requestID int64) (int64, error) {
	itemID, err := store.ApproveRequest(ctx, db, requestID, actor.UserID)
	if err != nil {
		return 0, err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditApproveRequest, model.EntityItemRequest, requestID,
		map[string]any{"newItemId": itemID})
	return itemID, nil
}

// DenyRequest denies a pending request with a reason.
func DenyRequest(ctx context.Context, db *sql.DB, actor identity.Identity, requestID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: deny reason is required", apperr.ErrValidation)
	}

	if err := store.DenyRequest(ctx, db, requestID, actor.UserID, reason); err != nil {
		return err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditDenyRequest, model.EntityItemRequest, requestID,
		map[string]any{"reason": reason})
	return nil
}

// AppealRequest records the requester's appeal on a denied request. The
// request stays denied; the appeal makes it visible for admin re-review.
func AppealRequest(ctx context.Context, db *sql.DB, actor identity.Identity, requestID int64, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("%w: appeal message is required", apperr.ErrValidation)
	}

	if err := store.AppealRequest(ctx, db, requestID, actor.UserID, message); err != nil {
		return err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditAppealRequest, model.EntityItemRequest, requestID,
		map[string]any{"message": message})
	return nil
}
