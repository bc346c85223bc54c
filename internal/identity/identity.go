// Package identity owns user accounts: login with lazy hash migration,
// admin-driven account management, and the Identity value that names the
// actor on every privileged core call.
package identity

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/katalog/internal/apperr"
	"github.com/erazemk/katalog/internal/audit"
	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

// Identity is the verified actor of a core operation. It is derived from a
// validated token at the transport boundary and passed explicitly; the core
// never reads the current user from ambient state.
type Identity struct {
	UserID int64
	Role   model.Role
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and mints a token. A user whose stored password
// predates hashing is transparently migrated: on first successful login the
// plaintext row is replaced with a PBKDF2 stored form and the upgrade is
// audited with no actor (the user is not authenticated until login returns).
// Every credential failure is reported as apperr.ErrUnauthorized, without
// distinguishing unknown users from wrong passwords.
func Login(ctx context.Context, db *sql.DB, cfg auth.TokenConfig, username, password string) (*LoginResult, error) {
	user, err := store.GetUserByUsername(ctx, db, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	ok, legacy := auth.VerifyPassword(user.PasswordHash, password)
	if !ok {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	if legacy {
		if err := migrateLegacyPassword(ctx, db, user.ID, password); err != nil {
			// The user still proved their password; keep the login working
			// and retry the upgrade on the next one.
			slog.Error("legacy password migration failed", "user", user.Username, "error", err)
		}
	}

	token, expiresAt, err := auth.GenerateToken(cfg, user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func migrateLegacyPassword(ctx context.Context, db *sql.DB, userID int64, password string) error {
	newHash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := store.UpdateUserPassword(ctx, db, userID, newHash); err != nil {
		return err
	}
	audit.Record(ctx, db, nil, model.AuditUpgradePasswordHash, model.EntityUser, userID, nil)
	return nil
}

// CreateUser creates an account with a hashed password. Duplicate usernames
// (case-insensitive) fail with apperr.ErrConflict.
func CreateUser(ctx context.Context, db *sql.DB, actor Identity, username, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	if err := model.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be admin or user", apperr.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.CreateUser(ctx, db, username, hash, role)
	if err != nil {
		return nil, err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditCreateUser, model.EntityUser, user.ID,
		map[string]any{"username": user.Username, "role": user.Role})
	return user, nil
}

// UpdateUserRole changes a user's role. An admin cannot strip their own
// admin role; that fails with apperr.ErrForbidden, not a validation error.
func UpdateUserRole(ctx context.Context, db *sql.DB, actor Identity, targetID int64, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: role must be admin or user", apperr.ErrValidation)
	}
	if actor.UserID == targetID && role != model.RoleAdmin {
		return fmt.Errorf("%w: cannot remove your own admin role", apperr.ErrForbidden)
	}

	if err := store.UpdateUserRole(ctx, db, targetID, role); err != nil {
		return err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditUpdateUserRole, model.EntityUser, targetID,
		map[string]any{"role": role})
	return nil
}

// ResetUserPassword sets a new password for a user.
func ResetUserPassword(ctx context.Context, db *sql.DB, actor Identity, targetID int64, newPassword string) error {
	if err := model.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := store.UpdateUserPassword(ctx, db, targetID, hash); err != nil {
		return err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditResetPassword, model.EntityUser, targetID, nil)
	return nil
}

// DeleteUser removes an account. An admin cannot delete their own account
// (apperr.ErrForbidden). Audit history referencing the id persists.
func DeleteUser(ctx context.Context, db *sql.DB, actor Identity, targetID int64) error {
	if actor.UserID == targetID {
		return fmt.Errorf("%w: cannot delete your own account", apperr.ErrForbidden)
	}

	if err := store.DeleteUser(ctx, db, targetID); err != nil {
		return err
	}

	audit.Record(ctx, db, &actor.UserID, model.AuditDeleteUser, model.EntityUser, targetID, nil)
	return nil
}

// UpgradeLegacyPasswords rehashes every account still storing a plaintext
// password, treating the stored plaintext as the password. Each user migrates
// independently, so a partial failure leaves the rest upgradable on a later
// run (or on the user's next login). Returns the number of upgraded accounts.
func UpgradeLegacyPasswords(ctx context.Context, db *sql.DB, actor Identity) (int, error) {
	users, err := store.ListUsers(ctx, db)
	if err != nil {
		return 0, err
	}

	upgraded := 0
	for _, u := range users {
		if !auth.IsLegacyHash(u.PasswordHash) {
			continue
		}

		newHash, err := auth.HashPassword(u.PasswordHash)
		if err != nil {
			return upgraded, fmt.Errorf("hashing password for user %d: %w", u.ID, err)
		}
		if err := store.UpdateUserPassword(ctx, db, u.ID, newHash); err != nil {
			return upgraded, err
		}
		upgraded++

		audit.Record(ctx, db, &actor.UserID, model.AuditUpgradePasswordHash, model.EntityUser, u.ID,
			map[string]any{"username": u.Username})
	}
	return upgraded, nil
}
