package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Inventory      *handlers.InventoryHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   fiber.Handler
	Metrics        *observability.Metrics

	// ProtectResources puts ticket and inventory routes behind a session.
	ProtectResources bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	authenticated := cfg.AuthMiddleware.Handle
	admin := cfg.AuthMiddleware.RequireRole(domain.RoleAdmin)

	api.Post("/users/login", cfg.LoginLimiter, cfg.Auth.Login)
	api.Post("/logout", authenticated, cfg.Auth.Logout)

	api.Post("/users", authenticated, admin, cfg.Users.Create)
	api.Get("/users", authenticated, admin, cfg.Users.List)
	api.Get("/users/search", authenticated, admin, cfg.Users.Search)
	api.Get("/users/:id", authenticated, admin, cfg.Users.Get)
	api.Put("/users/:id", authenticated, admin, cfg.Users.Update)
	api.Delete("/users/:id", authenticated, admin, cfg.Users.Delete)
	api.Patch("/users/:id/role", authenticated, admin, cfg.Users.AssignRole)
	api.Patch("/users/:id/password", authenticated, auth.RequireSelf("id"), cfg.Users.ChangePassword)
	api.Get("/users/:id/audit", authenticated, admin, cfg.Users.AuditTrail)

	protect := auth.OptionalSession(cfg.ProtectResources, authenticated)

	api.Post("/tickets", protect, cfg.Tickets.CreateTicket)
	api.Get("/tickets", protect, cfg.Tickets.ListTickets)
	api.Get("/tickets/:id", protect, cfg.Tickets.GetTicket)
	api.Put("/tickets/:id", protect, cfg.Tickets.UpdateTicket)
	api.Delete("/tickets/:id", protect, cfg.Tickets.DeleteTicket)
	api.Patch("/tickets/:id/comments", protect, cfg.Tickets.AddComment)

	api.Post("/category", protect, cfg.Inventory.CreateCategory)
	api.Get("/category", protect, cfg.Inventory.ListCategories)
	api.Get("/category/:id", protect, cfg.Inventory.GetCategory)
	api.Put("/category/:id", protect, cfg.Inventory.UpdateCategory)
	api.Delete("/category/:id", protect, cfg.Inventory.DeleteCategory)

	api.Post("/suppliers", protect, cfg.Inventory.CreateSupplier)
	api.Get("/suppliers", protect, cfg.Inventory.ListSuppliers)
	api.Get("/suppliers/:id", protect, cfg.Inventory.GetSupplier)
	api.Put("/suppliers/:id", protect, cfg.Inventory.UpdateSupplier)
	api.Delete("/suppliers/:id", protect, cfg.Inventory.DeleteSupplier)

	api.Post("/items", protect, cfg.Inventory.CreateItem)
	api.Get("/items", protect, cfg.Inventory.ListItems)
	api.Get("/items/:id", protect, cfg.Inventory.GetItem)
	api.Put("/items/:id", protect, cfg.Inventory.UpdateItem)
	api.Delete("/items/:id", protect, cfg.Inventory.DeleteItem)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewDomainError(apperrors.CodeNotFound, "Route not found", fiber.StatusNotFound, nil)
	})
}
