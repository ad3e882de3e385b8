package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hackdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/hackdesk/helpdesk-service/internal/auth"
	"github.com/hackdesk/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Mentors        *handlers.MentorsHandler
	Tickets        *handlers.TicketsHandler
	MentorTickets  *handlers.MentorTicketsHandler
	Configs        *handlers.ConfigsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/mentors/login", cfg.Mentors.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireUser())
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/close", cfg.Tickets.Close)

	mentor := app.Group("/mentor", cfg.AuthMiddleware.Handle, auth.RequireMentorRole())
	mentor.Post("/password", cfg.Mentors.ChangePassword)
	mentor.Get("/tickets", cfg.MentorTickets.ListMine)
	mentor.Get("/tickets/open", cfg.MentorTickets.ListOpen)
	mentor.Get("/tickets/category/:category", cfg.MentorTickets.ListByCategory)
	mentor.Get("/tickets/:id", cfg.MentorTickets.Get)
	mentor.Post("/tickets/:id/claim", cfg.MentorTickets.Claim)
	mentor.Post("/tickets/:id/reassign", cfg.MentorTickets.Reassign)
	mentor.Post("/tickets/:id/release", cfg.MentorTickets.Release)
	mentor.Post("/tickets/:id/close", cfg.MentorTickets.Close)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireMentorRole(domain.MentorRoleAdmin))
	admin.Post("/mentors", cfg.Mentors.Create)
	admin.Get("/configs/:key", cfg.Configs.Get)
	admin.Put("/configs/:key", cfg.Configs.Set)
}
