package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/content-service/internal/api/http/handlers"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Articles       *handlers.ArticlesHandler
	Permissions    *handlers.PermissionsHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   *IPRateLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	mw := cfg.AuthMiddleware
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	limited := func(h fiber.Handler) []fiber.Handler {
		if cfg.LoginLimiter == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{cfg.LoginLimiter.Handler(), h}
	}
	authGroup.Post("/register", limited(cfg.Auth.Register)...)
	authGroup.Post("/login", limited(cfg.Auth.Login)...)
	authGroup.Post("/logout", mw.Handle, mw.Require(auth.OpLogout), cfg.Auth.Logout)
	authGroup.Get("/me", mw.Handle, mw.Require(auth.OpMe), cfg.Auth.Me)

	api.Get("/permissions", mw.Handle, mw.Require(auth.OpPermissionsList), cfg.Permissions.List)

	articles := api.Group("/articles", mw.Handle)
	articles.Get("/", mw.Require(auth.OpArticlesList), cfg.Articles.List)
	articles.Get("/:id", mw.Require(auth.OpArticlesGet), cfg.Articles.Get)
	articles.Post("/", mw.Require(auth.OpArticlesCreate), cfg.Articles.Create)
	articles.Patch("/:id", mw.Require(auth.OpArticlesUpdate), cfg.Articles.Update)
	articles.Delete("/:id", mw.Require(auth.OpArticlesDelete), cfg.Articles.Delete)

	users := api.Group("/users", mw.Handle)
	users.Get("/", mw.Require(auth.OpUsersList), cfg.Users.List)
	users.Get("/:id", mw.Require(auth.OpUsersGet), cfg.Users.Get)
	users.Post("/", mw.Require(auth.OpUsersCreate), cfg.Users.Create)
	users.Patch("/:id", mw.Require(auth.OpUsersUpdate), cfg.Users.Update)
	users.Delete("/:id", mw.Require(auth.OpUsersDelete), cfg.Users.Delete)
}
