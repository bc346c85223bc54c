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

// CreateItem creates a catalog item directly, bypassing the request flow.
// The actor (an admin) is recorded as the item's author.
func CreateItem(ctx context.Context, db *sql.DB, actor identity.Identity, name, description string) (*model.Item, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: item name is required (min 2 chars)", apperr.ErrValidation)
	}

	item, err := store.CreateItem(ctx, db, name, strings.TrimSpace(description), &actor.UserID)
	if err != nil {
		return nil, err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditAdminCreateItem, model.EntityItem, item.ID,
		map[string]any{"name": item.Name})
	return item, nil
}

// UpdateItem edits an item's name and description.
func UpdateItem(ctx context.Context, db *sql.DB, actor identity.Identity, itemID int64, name, description string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return fmt.Errorf("%w: item name is required (min 2 chars)", apperr.ErrValidation)
	}

	if err := store.UpdateItem(ctx, db, itemID, name, strings.TrimSpace(description)); err != nil {
		return err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditAdminUpdateItem, model.EntityItem, itemID,
		map[string]any{"name": name})
	return nil
}

// DeleteItem removes an item from the catalog.
func DeleteItem(ctx context.Context, db *sql.DB, actor identity.Identity, itemID int64) error {
	if err := store.DeleteItem(ctx, db, itemID); err != nil {
		return err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditAdminDeleteItem, model.EntityItem, itemID, nil)
	return nil
}
