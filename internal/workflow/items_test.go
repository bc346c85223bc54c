package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/katalog/internal/apperr"
	"github.com/erazemk/katalog/internal/db"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

func TestAdminItemLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	_, admin := testActors(t, database)

	item, err := CreateItem(ctx, database, admin, "Projector", "Conference room")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	// Directly created items are authored by the admin.
	if item.CreatedByUserID == nil || *item.CreatedByUserID != admin.UserID {
		t.Errorf("expected created_by %d, got %v", admin.UserID, item.CreatedByUserID)
	}

	if err := UpdateItem(ctx, database, admin, item.ID, "Projector 4K", "Upgraded"); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	got, _ := store.GetItem(ctx, database, item.ID)
	if got.Name != "Projector 4K" {
		t.Errorf("update not applied: %+v", got)
	}

	if err := DeleteItem(ctx, database, admin, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	got, _ = store.GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be gone")
	}

	// One audit record per mutation, all attributed to the admin.
	for _, action := range []string{
		model.AuditAdminCreateItem,
		model.AuditAdminUpdateItem,
		model.AuditAdminDeleteItem,
	} {
		count, _ := store.CountAuditRecords(ctx, database, model.EntityItem, item.ID, action)
		if count != 1 {
			t.Errorf("expected 1 %s audit record, got %d", action, count)
		}
	}
}

func TestCreateItemValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	_, admin := testActors(t, database)

	_, err := CreateItem(ctx, database, admin, " x ", "")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation for short name, got %v", err)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	_, admin := testActors(t, database)

	if err := UpdateItem(ctx, database, admin, 9999, "Name", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := DeleteItem(ctx, database, admin, 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Failed operations leave no audit trace.
	records, _ := store.ListAuditRecords(ctx, database, 0)
	if len(records) != 0 {
		t.Errorf("expected no audit records, got %d", len(records))
	}
}
