package dto

import (
	"time"

	"github.com/dinobux/storebot/internal/domain"
)

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StaffView is the API projection of a staff account.
type StaffView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// StaffLoginResponse payload.
type StaffLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Staff     StaffView `json:"staff"`
}

// NewStaffView maps a staff account.
func NewStaffView(account *domain.StaffAccount) StaffView {
	return StaffView{
		ID:       account.ID,
		Username: account.Username,
		Role:     string(account.Role),
	}
}
