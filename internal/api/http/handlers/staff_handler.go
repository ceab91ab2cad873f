package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinobux/storebot/internal/api/dto"
	"github.com/dinobux/storebot/internal/service"
	apperrors "github.com/dinobux/storebot/pkg/util/errorutil"
)

// StaffHandler serves staff authentication.
type StaffHandler struct {
	auth *service.AuthService
}

// NewStaffHandler returns a new handler instance.
func NewStaffHandler(auth *service.AuthService) *StaffHandler {
	return &StaffHandler{auth: auth}
}

// Login authenticates a staff account and issues a bearer token.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.StaffLoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Staff:     dto.NewStaffView(result.Staff),
	})
}
