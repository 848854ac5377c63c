package model

import "time"

// Order is a frozen copy of a draft at the moment it was marked sent.
// Orders are append-only and never mutated after creation.
type Order struct {
	ID         int64       `json:"id"`
	Status     DraftStatus `json:"status"`
	Items      []LineItem  `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	ApprovedBy *string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time  `json:"approved_at,omitempty"`
	SentBy     string      `json:"sent_by"`
	SentAt     time.Time   `json:"sent_at"`
}
