package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jansankalp/grievance-service/internal/api/http/handlers"
	"github.com/jansankalp/grievance-service/internal/auth"
	"github.com/jansankalp/grievance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Reports        *handlers.ReportsHandler
	Officer        *handlers.OfficerHandler
	Admin          *handlers.AdminHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle)
	reports.Post("/", cfg.Reports.CreateReport)
	reports.Get("/", cfg.Reports.ListReports)
	reports.Get("/:id", cfg.Reports.GetReport)

	officer := app.Group("/officer", cfg.AuthMiddleware.Handle, auth.RequireHandler())
	officer.Get("/reports", cfg.Officer.ListAssigned)
	officer.Put("/reports/status", cfg.Officer.UpdateStatus)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/reports", cfg.Admin.ListReports)
	admin.Post("/reports/assign", cfg.Admin.AssignReport)
	admin.Patch("/reports/:id/verify", cfg.Admin.VerifyReport)
	admin.Post("/reports/:id/override", cfg.Admin.OverrideStatus)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle)
	notifications.Get("/", cfg.Notifications.List)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
}
