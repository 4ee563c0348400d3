package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atende/servicedesk/internal/api/http/handlers"
	"github.com/atende/servicedesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Tickets         *handlers.TicketsHandler
	Intake          *handlers.IntakeHandler
	ActorMiddleware *auth.ActorMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets", cfg.ActorMiddleware.Optional)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/history", cfg.Tickets.GetTicketHistory)
	tickets.Post("/:id/transition", cfg.ActorMiddleware.Required, cfg.Tickets.TransitionTicket)

	// Chat provider webhook; the sender id is trusted as supplied by the
	// provider, so no bearer token is expected here.
	app.Post("/channels/chat/inbound", cfg.Intake.InboundChat)
}
