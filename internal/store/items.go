package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/katalog/internal/apperr"
	"github.com/erazemk/katalog/internal/model"
)

// CreateItem creates a new catalog item. createdBy is the user the item's
// authorship is attributed to; nil for system-created items.
func CreateItem(ctx context.Context, db *sql.DB, name, description string, createdBy *int64) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, description, created_by_user_id) VALUES (?, ?, ?)`,
		name, description, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if no such item exists.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description sql.NullString
	var createdBy sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, created_by_user_id, created_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &description, &createdBy, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Description = description.String
	if createdBy.Valid {
		item.CreatedByUserID = &createdBy.Int64
	}
	return item, nil
}

// ListItems returns all items ordered by name.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, created_by_user_id, created_at
		 FROM items ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var description sql.NullString
		var createdBy sql.NullInt64
		if err := rows.Scan(&item.ID, &item.Name, &description, &createdBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Description = description.String
		if createdBy.Valid {
			item.CreatedByUserID = &createdBy.Int64
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's name and description.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name, description string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ? WHERE id = ?`,
		name, description, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: item %d", apperr.ErrNotFound, id)
	}
	return nil
}

// DeleteItem removes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: item %d", apperr.ErrNotFound, id)
	}
	return nil
}
