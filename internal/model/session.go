package model

import "time"

// Roles a session may assert. There is no credential check; identity is
// self-asserted by design for this trusted-team tool.
const (
	RoleStaff = "Staff"
	RoleOwner = "Owner"
)

type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
