package handlers

import (
	"wellness-engagement-system/middleware"
	"wellness-engagement-system/models"
	"wellness-engagement-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

func SetupChallengeRoutes(app *fiber.App, db *gorm.DB, store *session.Store, challengeService *services.ChallengeService) {
	secured := app.Group("/api", middleware.RequireAuth(store))

	secured.Get("/challenges", func(c *fiber.Ctx) error {
		challenges, err := challengeService.ListChallenges()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(challenges)
	})

	secured.Get("/challenges/:id", func(c *fiber.Ctx) error {
		challenge, err := challengeService.GetChallenge(c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(challenge)
	})

	// Catalog authoring is admin-only; entries are immutable once created
	secured.Post("/challenges", middleware.RequireRole(db, models.RoleAdmin), func(c *fiber.Ctx) error {
		var req struct {
			Title        string               `json:"title" validate:"required"`
			Description  string               `json:"description"`
			Category     string               `json:"category"`
			Difficulty   string               `json:"difficulty"`
			Type         models.ChallengeType `json:"type" validate:"required,oneof=daily weekly monthly one-time"`
			XPReward     int64                `json:"xp_reward" validate:"min=0"`
			CreditReward int64                `json:"credit_reward" validate:"min=0"`
			DurationDays int                  `json:"duration_days" validate:"min=1"`
			Goal         int64                `json:"goal" validate:"min=1"`
			TargetMetric string               `json:"target_metric"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Title == "" || req.Goal <= 0 || req.DurationDays <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title, goal and duration_days are required"})
		}

		challenge := models.Challenge{
			Title:        req.Title,
			Description:  req.Description,
			Category:     req.Category,
			Difficulty:   req.Difficulty,
			Type:         req.Type,
			XPReward:     req.XPReward,
			CreditReward: req.CreditReward,
			DurationDays: req.DurationDays,
			Goal:         req.Goal,
			TargetMetric: req.TargetMetric,
		}
		if err := challengeService.CreateChallenge(&challenge); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(challenge)
	})

	secured.Get("/user-challenges", func(c *fiber.Ctx) error {
		rows, err := challengeService.ListUserChallenges(currentUserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(rows)
	})

	secured.Post("/user-challenges", func(c *fiber.Ctx) error {
		var req struct {
			ChallengeID string `json:"challenge_id" validate:"required,uuid"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.ChallengeID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "challenge_id is required"})
		}

		uc, err := challengeService.JoinChallenge(currentUserID(c), req.ChallengeID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(uc)
	})

	secured.Put("/user-challenges/:id", func(c *fiber.Ctx) error {
		var req struct {
			CurrentValue int64 `json:"current_value"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		uc, err := challengeService.UpdateProgress(currentUserID(c), c.Params("id"), req.CurrentValue)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(uc)
	})
}
