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

func SetupEventRoutes(app *fiber.App, db *gorm.DB, store *session.Store, eventService *services.EventService) {
	secured := app.Group("/api", middleware.RequireAuth(store))

	secured.Get("/events", func(c *fiber.Ctx) error {
		events, err := eventService.ListUpcoming(time.Now())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(events)
	})

	secured.Post("/events/:id/register", func(c *fiber.Ctx) error {
		reg, err := eventService.Register(currentUserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(reg)
	})

	hr := secured.Group("/", middleware.RequireRole(db, models.RoleAdmin, models.RoleHR))

	hr.Post("/events", func(c *fiber.Ctx) error {
		var req struct {
			Title       string    `json:"title" validate:"required"`
			Description string    `json:"description"`
			Location    string    `json:"location"`
			StartsAt    time.Time `json:"starts_at" validate:"required"`
			Capacity    int64     `json:"capacity" validate:"min=0"`
			XPReward    int64     `json:"xp_reward" validate:"min=0"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Title == "" || req.StartsAt.IsZero() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and starts_at are required"})
		}

		event := models.Event{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			StartsAt:    req.StartsAt,
			Capacity:    req.Capacity,
			XPReward:    req.XPReward,
		}
		if err := eventService.CreateEvent(&event); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(event)
	})

	hr.Post("/events/:id/attendance", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
		}
		if err := c.BodyParser(&req); err != nil || req.UserID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
		}

		if err := eventService.MarkAttended(c.Params("id"), req.UserID); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "attendance recorded"})
	})
}
