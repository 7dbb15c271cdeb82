package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quiktik/helpdesk/internal/api/http/handlers"
	"github.com/quiktik/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Teams          *handlers.TeamsHandler
	Categories     *handlers.CategoriesHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Post("/:id/deactivate", cfg.Users.Deactivate)

	teams := app.Group("/teams", cfg.AuthMiddleware.Handle)
	teams.Get("/", cfg.Teams.List)
	teams.Post("/", cfg.Teams.Create)
	teams.Get("/:id", cfg.Teams.Get)
	teams.Patch("/:id", cfg.Teams.Update)
	teams.Delete("/:id", cfg.Teams.Delete)
	teams.Get("/:id/members", cfg.Teams.ListMembers)
	teams.Post("/:id/members", cfg.Teams.AddMember)

	members := app.Group("/members", cfg.AuthMiddleware.Handle)
	members.Patch("/:id", cfg.Teams.UpdateMember)
	members.Delete("/:id", cfg.Teams.RemoveMember)

	categories := app.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Get("/", cfg.Categories.List)
	categories.Post("/", cfg.Categories.Create)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Patch("/:id", cfg.Categories.Update)
	categories.Delete("/:id", cfg.Categories.Delete)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Post("/:id/assign", cfg.Tickets.Assign)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	comments := app.Group("/comments", cfg.AuthMiddleware.Handle)
	comments.Patch("/:id", cfg.Tickets.UpdateComment)
	comments.Delete("/:id", cfg.Tickets.DeleteComment)
}
