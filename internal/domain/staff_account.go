package domain

import "time"

// StaffRole enumerates staff API roles.
type StaffRole string

const (
	StaffRoleAdmin StaffRole = "ADMIN"
	StaffRoleAgent StaffRole = "AGENT"
)

// StaffAccount is a login for the staff HTTP API. Chat-platform staff
// membership is configured separately; these accounts exist only for
// the read-only inspection endpoints.
type StaffAccount struct {
	ID           string
	Username     string
	PasswordHash string
	Role         StaffRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
