package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crowdfund-service/internal/api/http/handlers"
	"github.com/spec-kit/crowdfund-service/internal/auth"
	"github.com/spec-kit/crowdfund-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Campaigns      *handlers.CampaignsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role checks are composed here at
// registration time; routes open to any authenticated account list both
// roles explicitly since role matching is exact.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	anyMember := auth.RequireRole(domain.RoleUser, domain.RoleAdmin)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, anyMember, cfg.Auth.Logout)

	campaigns := app.Group("/campaigns")
	campaigns.Get("/", cfg.Campaigns.List)
	campaigns.Get("/:id", cfg.Campaigns.Get)
	campaigns.Post("/", cfg.AuthMiddleware.Handle, anyMember, cfg.Campaigns.Create)
	campaigns.Post("/:id/contributions", cfg.AuthMiddleware.Handle, anyMember, cfg.Campaigns.Contribute)
	campaigns.Post("/:id/close", cfg.AuthMiddleware.Handle, anyMember, cfg.Campaigns.Close)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/users/:id", cfg.Users.Get)
}
