package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-assistant/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Metrics   *handlers.MetricsHandler
	Chat      *handlers.ChatHandler
	Tickets   *handlers.TicketsHandler
	Knowledge *handlers.KnowledgeHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	app.Post("/chat", cfg.Chat.Chat)

	app.Get("/tickets", cfg.Tickets.ListTickets)
	app.Get("/tickets/search", cfg.Tickets.SearchTickets)

	app.Get("/knowledge", cfg.Knowledge.ListDocuments)
	app.Get("/knowledge/:id", cfg.Knowledge.GetDocument)
	app.Post("/knowledge", cfg.Knowledge.AddDocument)
}
