package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/erazemk/katalog/internal/apperr"
	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/db"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

var testTokenCfg = auth.TokenConfig{
	Secret:   "test-secret",
	Issuer:   "katalog",
	Audience: "katalog",
}

func adminActor() Identity {
	return Identity{UserID: 1, Role: model.RoleAdmin}
}

func TestLogin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("password123")
	user, _ := store.CreateUser(ctx, database, "alice", hash, model.RoleUser)

	result, err := Login(ctx, database, testTokenCfg, "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
	if result.User.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, result.User.ID)
	}

	claims, err := auth.ValidateToken(testTokenCfg, result.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "alice" || claims.Role != model.RoleUser {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLoginFailures(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("password123")
	store.CreateUser(ctx, database, "alice", hash, model.RoleUser)

	_, err := Login(ctx, database, testTokenCfg, "alice", "wrong")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for wrong password, got %v", err)
	}

	_, err = Login(ctx, database, testTokenCfg, "nobody", "password123")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestLoginMigratesLegacyPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// A row created before hashing was introduced stores the password as-is.
	user, _ := store.CreateUser(ctx, database, "olduser", "admin123", model.RoleUser)

	result, err := Login(ctx, database, testTokenCfg, "olduser", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}

	// The stored form was upgraded in place.
	got, _ := store.GetUser(ctx, database, user.ID)
	if !strings.HasPrefix(got.PasswordHash, "PBKDF2.") {
		t.Errorf("expected migrated hash, got %q", got.PasswordHash)
	}

	// The migration was audited without an actor.
	records, _ := store.ListAuditRecords(ctx, database, 0)
	if len(records) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(records))
	}
	if records[0].Action != model.AuditUpgradePasswordHash || records[0].ActorUserID != nil {
		t.Errorf("unexpected audit record: %+v", records[0])
	}

	// The new hash still verifies on the next login.
	if _, err := Login(ctx, database, testTokenCfg, "olduser", "admin123"); err != nil {
		t.Fatalf("Login after migration: %v", err)
	}

	// No second migration happened.
	records, _ = store.ListAuditRecords(ctx, database, 0)
	if len(records) != 1 {
		t.Errorf("expected still 1 audit record, got %d", len(records))
	}
}

func TestLoginLegacyWrongPasswordDoesNotMigrate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := store.CreateUser(ctx, database, "olduser", "admin123", model.RoleUser)

	_, err := Login(ctx, database, testTokenCfg, "olduser", "wrong")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	got, _ := store.GetUser(ctx, database, user.ID)
	if got.PasswordHash != "admin123" {
		t.Errorf("expected stored form untouched, got %q", got.PasswordHash)
	}
}

func TestCreateUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, adminActor(), "bob", "secret123", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if !strings.HasPrefix(user.PasswordHash, "PBKDF2.") {
		t.Errorf("expected hashed password, got %q", user.PasswordHash)
	}

	count, _ := store.CountAuditRecords(ctx, database, model.EntityUser, user.ID, model.AuditCreateUser)
	if count != 1 {
		t.Errorf("expected 1 CreateUser audit record, got %d", count)
	}
}

func TestCreateUserValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		role     model.Role
	}{
		{"short username", "ab", "secret123", model.RoleUser},
		{"short password", "bob", "short", model.RoleUser},
		{"bad role", "bob", "secret123", model.Role("manager")},
	}

	for _, tt := range tests {
		_, err := CreateUser(ctx, database, adminActor(), tt.username, tt.password, tt.role)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tt.name, err)
		}
	}
}

func TestCreateUserConflict(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, adminActor(), "bob", "secret123", model.RoleUser); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := CreateUser(ctx, database, adminActor(), "Bob", "secret123", model.RoleUser)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate username, got %v", err)
	}
}

func TestUpdateUserRoleSelfProtection(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("secret123")
	admin, _ := store.CreateUser(ctx, database, "root", hash, model.RoleAdmin)
	actor := Identity{UserID: admin.ID, Role: model.RoleAdmin}

	// Removing your own admin role fails with the self-protection guard,
	// not a validation error.
	err := UpdateUserRole(ctx, database, actor, admin.ID, model.RoleUser)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if errors.Is(err, apperr.ErrValidation) {
		t.Error("self-protection must not be reported as validation failure")
	}

	// Re-asserting your own admin role is allowed.
	if err := UpdateUserRole(ctx, database, actor, admin.ID, model.RoleAdmin); err != nil {
		t.Errorf("UpdateUserRole(self, admin): %v", err)
	}

	// Changing someone else's role works.
	other, _ := store.CreateUser(ctx, database, "bob", hash, model.RoleUser)
	if err := UpdateUserRole(ctx, database, actor, other.ID, model.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	got, _ := store.GetUser(ctx, database, other.ID)
	if got.Role != model.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", got.Role)
	}

	count, _ := store.CountAuditRecords(ctx, database, model.EntityUser, other.ID, model.AuditUpdateUserRole)
	if count != 1 {
		t.Errorf("expected 1 UpdateUserRole audit record, got %d", count)
	}
}

func TestDeleteUserSelfProtection(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("secret123")
	admin, _ := store.CreateUser(ctx, database, "root", hash, model.RoleAdmin)
	actor := Identity{UserID: admin.ID, Role: model.RoleAdmin}

	err := DeleteUser(ctx, database, actor, admin.ID)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden for self delete, got %v", err)
	}

	other, _ := store.CreateUser(ctx, database, "bob", hash, model.RoleUser)
	if err := DeleteUser(ctx, database, actor, other.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// The row is gone, the audit trail persists.
	got, _ := store.GetUser(ctx, database, other.ID)
	if got != nil {
		t.Error("expected user to be deleted")
	}
	count, _ := store.CountAuditRecords(ctx, database, model.EntityUser, other.ID, model.AuditDeleteUser)
	if count != 1 {
		t.Errorf("expected 1 DeleteUser audit record, got %d", count)
	}
}

func TestResetUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("oldpassword")
	user, _ := store.CreateUser(ctx, database, "bob", hash, model.RoleUser)

	err := ResetUserPassword(ctx, database, adminActor(), user.ID, "short")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation for short password, got %v", err)
	}

	if err := ResetUserPassword(ctx, database, adminActor(), user.ID, "newpassword"); err != nil {
		t.Fatalf("ResetUserPassword: %v", err)
	}

	if _, err := Login(ctx, database, testTokenCfg, "bob", "newpassword"); err != nil {
		t.Errorf("Login with new password: %v", err)
	}
	if _, err := Login(ctx, database, testTokenCfg, "bob", "oldpassword"); err == nil {
		t.Error("expected old password to be rejected")
	}
}

func TestUpgradeLegacyPasswords(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("secret123")
	store.CreateUser(ctx, database, "hashed", hash, model.RoleUser)
	legacy1, _ := store.CreateUser(ctx, database, "legacy1", "password1", model.RoleUser)
	legacy2, _ := store.CreateUser(ctx, database, "legacy2", "password2", model.RoleUser)

	upgraded, err := UpgradeLegacyPasswords(ctx, database, adminActor())
	if err != nil {
		t.Fatalf("UpgradeLegacyPasswords: %v", err)
	}
	if upgraded != 2 {
		t.Errorf("expected 2 upgrades, got %d", upgraded)
	}

	// The old plaintext still logs in, now against the PBKDF2 form.
	for user, password := range map[string]string{"legacy1": "password1", "legacy2": "password2"} {
		if _, err := Login(ctx, database, testTokenCfg, user, password); err != nil {
			t.Errorf("Login(%s) after upgrade: %v", user, err)
		}
	}

	for _, id := range []int64{legacy1.ID, legacy2.ID} {
		count, _ := store.CountAuditRecords(ctx, database, model.EntityUser, id, model.AuditUpgradePasswordHash)
		if count != 1 {
			t.Errorf("expected 1 upgrade audit record for user %d, got %d", id, count)
		}
	}

	// Second run finds nothing to do.
	upgraded, err = UpgradeLegacyPasswords(ctx, database, adminActor())
	if err != nil {
		t.Fatalf("UpgradeLegacyPasswords: %v", err)
	}
	if upgraded != 0 {
		t.Errorf("expected 0 upgrades on second run, got %d", upgraded)
	}
}
