package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jewelry-store/internal/api/http/handlers"
	"github.com/spec-kit/jewelry-store/internal/auth"
	"github.com/spec-kit/jewelry-store/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.UploadsDir != "" {
		app.Static("/uploads/products", cfg.UploadsDir)
	}

	authGroup := app.Group("/api/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/profile", cfg.AuthMiddleware.Handle, cfg.Auth.Profile)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	products := app.Group("/api/products")
	products.Get("/", cfg.Products.List)
	products.Get("/category/:category", cfg.Products.ListByCategory)
	products.Get("/:id", cfg.Products.GetByID)

	manage := products.Group("",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin),
	)
	manage.Post("/", cfg.Products.Create)
	manage.Put("/:id", cfg.Products.Update)
	manage.Delete("/:id", cfg.Products.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}
