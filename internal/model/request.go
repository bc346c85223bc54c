package model

import "time"

// ItemRequest represents a user's request for a new catalog item.
type ItemRequest struct {
	ID                    int64         `json:"id"`
	RequestedByUserID     int64         `json:"requested_by_user_id"`
	Name                  string        `json:"name"`
	Description           string        `json:"description,omitempty"`
	Status                RequestStatus `json:"status"`
	DenyReason            string        `json:"deny_reason,omitempty"`
	AppealMessage         string        `json:"appeal_message,omitempty"`
	AppealedAt            *time.Time    `json:"appealed_at,omitempty"`
	ReviewedByAdminUserID *int64        `json:"reviewed_by_admin_user_id,omitempty"`
	ReviewedAt            *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// RequestStatus is the formal state of an item request. An appeal attaches
// to a denied request without changing its status.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDenied   RequestStatus = "denied"
)
