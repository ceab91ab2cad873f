package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dinobux/storebot/internal/api/dto"
	"github.com/dinobux/storebot/internal/service"
)

// LedgerHandler serves customer payment history for staff.
type LedgerHandler struct {
	ledger *service.LedgerService
}

// NewLedgerHandler returns a new handler instance.
func NewLedgerHandler(ledger *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// History returns a customer's lifetime total and recent paid orders.
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "5"))

	history, err := h.ledger.History(c.UserContext(), c.Params("userID"), limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLedgerHistoryResponse(history))
}
