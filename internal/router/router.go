package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medmap/admin-api/internal/config"
	"github.com/medmap/admin-api/internal/handler"
	"github.com/medmap/admin-api/internal/middleware"
	"github.com/medmap/admin-api/internal/models"
	"github.com/medmap/admin-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StatsHandler       *handler.StatsHandler
	DoctorHandler      *handler.DoctorHandler
	AppointmentHandler *handler.AppointmentHandler
	PatientHandler     *handler.PatientHandler
	ActivityHandler    *handler.ActivityHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Every admin
// endpoint sits behind JWT auth and an admin-role guard; there is no
// environment in which the guard is bypassed.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminGuard := middleware.RequireRole(models.RoleAdmin)

	admin := api.Group("", jwtMiddleware, adminGuard)

	if deps.StatsHandler != nil {
		deps.StatsHandler.Register(admin.Group("/stats"))
	}
	if deps.DoctorHandler != nil {
		deps.DoctorHandler.Register(admin.Group("/doctors"))
	}
	if deps.AppointmentHandler != nil {
		deps.AppointmentHandler.Register(admin.Group("/appointments"))
	}
	if deps.PatientHandler != nil {
		deps.PatientHandler.Register(admin.Group("/patients"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin.Group("/activity"))
	}
}
