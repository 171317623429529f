package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/hris-go-api/internal/config"
	"github.com/noah-isme/hris-go-api/internal/handler"
	"github.com/noah-isme/hris-go-api/internal/middleware"
	"github.com/noah-isme/hris-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AppraisalHandler    *handler.AppraisalHandler
	NotificationHandler *handler.NotificationHandler
	AuditHandler        *handler.AuditHandler
	PayrollHandler      *handler.PayrollHandler
	SeedHandler         *handler.SeedHandler
	HealthProbes        map[string]handler.HealthProbe
	JWTMiddleware       fiber.Handler
	// WriteRateLimit caps bulk creation and evidence uploads per user. Zero disables it.
	WriteRateLimit int
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))

	// Seeding is token guarded, not JWT guarded, so it is throttled per client IP.
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed", middleware.RateLimit("seed", 10, time.Minute)))
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	next := func(c *fiber.Ctx) error { return c.Next() }
	requireUser := middleware.WithAuth(next, middleware.AuthOptions{RequireUser: true})

	if deps.AppraisalHandler != nil {
		var guards []fiber.Handler
		if deps.WriteRateLimit > 0 {
			guards = append(guards, middleware.RateLimit("appraisal-write", deps.WriteRateLimit, time.Minute))
		}
		deps.AppraisalHandler.Register(api.Group("/appraisals", jwtMiddleware), guards...)
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", jwtMiddleware, requireUser))
	}

	if deps.AuditHandler != nil {
		audit := api.Group("/audit-logs", jwtMiddleware, middleware.RequireRole("hr", "admin"))
		deps.AuditHandler.Register(audit)
	}

	if deps.PayrollHandler != nil {
		deps.PayrollHandler.Register(api.Group("/payroll", jwtMiddleware, requireUser))
	}
}
