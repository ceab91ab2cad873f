package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dinobux/storebot/internal/api/http/handlers"
	"github.com/dinobux/storebot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	Ledger         *handlers.LedgerHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The API surface is read-only for
// tickets and the ledger; mutations happen only through the chat bot.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	api.Get("/tickets", cfg.Tickets.ListOpen)
	api.Get("/tickets/:channelID", cfg.Tickets.Get)
	api.Get("/customers/:userID/ledger", cfg.Ledger.History)
}
