package handlers

import (
	"time"

	"wellness-engagement-system/middleware"
	"wellness-engagement-system/models"
	"wellness-engagement-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

func SetupMetricRoutes(app *fiber.App, db *gorm.DB, store *session.Store, metricsService *services.MetricsService) {
	secured := app.Group("/api", middleware.RequireAuth(store))

	secured.Post("/health-metrics", func(c *fiber.Ctx) error {
		var req struct {
			MetricType string     `json:"metric_type" validate:"required"`
			Value      float64    `json:"value"`
			RecordedAt *time.Time `json:"recorded_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.MetricType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "metric_type is required"})
		}

		recordedAt := time.Now()
		if req.RecordedAt != nil {
			recordedAt = *req.RecordedAt
		}

		metric, err := metricsService.LogMetric(currentUserID(c), req.MetricType, req.Value, recordedAt)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(metric)
	})

	secured.Get("/health-metrics", func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 30)
		if days < 1 || days > 365 {
			days = 30
		}
		metrics, err := metricsService.ListUserMetrics(currentUserID(c), time.Now().AddDate(0, 0, -days))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(metrics)
	})

	// Department-level aggregates are restricted to admin/HR/HSE
	secured.Get("/organizational-metrics",
		middleware.RequireRole(db, models.RoleAdmin, models.RoleHR, models.RoleHSE),
		func(c *fiber.Ctx) error {
			var date *time.Time
			if raw := c.Query("date"); raw != "" {
				parsed, err := time.Parse("2006-01-02", raw)
				if err != nil {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
				}
				date = &parsed
			}

			rows, err := metricsService.QueryOrganizational(c.Query("departmentId"), date)
			if err != nil {
				return serviceError(c, err)
			}
			return c.JSON(rows)
		})
}
