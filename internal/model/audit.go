package model

import "time"

// AuditRecord is one entry in the append-only audit ledger. ActorUserID is
// nil for system-attributed actions (e.g. lazy password migration during
// login, before an authenticated actor exists).
type AuditRecord struct {
	ID          int64     `json:"id"`
	ActorUserID *int64    `json:"actor_user_id,omitempty"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    int64     `json:"entity_id"`
	Details     string    `json:"details,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Audit actions. Stable vocabulary, referenced by reporting tools.
const (
	AuditCreateUser          = "CreateUser"
	AuditUpdateUserRole      = "UpdateUserRole"
	AuditResetPassword       = "ResetPassword"
	AuditDeleteUser          = "DeleteUser"
	AuditUpgradePasswordHash = "UpgradePasswordHash"
	AuditCreateRequest       = "CreateRequest"
	AuditApproveRequest      = "ApproveRequest"
	AuditDenyRequest         = "DenyRequest"
	AuditAppealRequest       = "AppealRequest"
	AuditAdminCreateItem     = "AdminCreateItem"
	AuditAdminUpdateItem     = "AdminUpdateItem"
	AuditAdminDeleteItem     = "AdminDeleteItem"
)

// Audit entity types.
const (
	EntityUser        = "User"
	EntityItemRequest = "ItemRequest"
	EntityItem        = "Item"
)
