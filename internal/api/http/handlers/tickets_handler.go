package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dinobux/storebot/internal/api/dto"
	"github.com/dinobux/storebot/internal/service"
)

// TicketsHandler serves read-only ticket inspection for staff.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler returns a new handler instance.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// ListOpen returns open tickets, newest first.
func (h *TicketsHandler) ListOpen(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	tickets, err := h.tickets.ListOpen(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tickets": dto.NewTicketViews(tickets)})
}

// Get returns the ticket bound to a channel.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("channelID"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketView(ticket))
}
