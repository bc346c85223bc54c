package model

import "time"

// Item represents a catalog item. CreatedByUserID records provenance: for
// items materialized from an approved request it is the original requester,
// not the approving admin.
type Item struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	CreatedByUserID *int64    `json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
