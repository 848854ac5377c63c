package model

import "time"

// DraftStatus is the lifecycle state of the current draft.
type DraftStatus string

const (
	StatusDraft    DraftStatus = "Draft"
	StatusApproved DraftStatus = "Approved"
	StatusSent     DraftStatus = "Sent"
)

// LineItem is a single staff-entered request. Name and the resolved category
// are fixed at add time; quantity and category may be edited while the owning
// draft is still in Draft status.
type LineItem struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Quantity string    `json:"quantity"`
	Category string    `json:"category"`
	AddedBy  string    `json:"added_by"`
	AddedAt  time.Time `json:"added_at"`
}

// Draft is the single mutable in-progress order. Exactly one row exists,
// addressed by a well-known key.
type Draft struct {
	Status     DraftStatus `json:"status"`
	Items      []LineItem  `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	ApprovedBy *string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time  `json:"approved_at,omitempty"`
}
