package handlers

import (
	"wellness-engagement-system/middleware"
	"wellness-engagement-system/models"
	"wellness-engagement-system/services"
	"wellness-engagement-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB, store *session.Store,
	userService *services.UserService, progressionService *services.ProgressionService) {

	secured := app.Group("/api", middleware.RequireAuth(store))

	secured.Get("/departments", func(c *fiber.Ctx) error {
		departments, err := userService.ListDepartments()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(departments)
	})

	secured.Post("/profile/avatar", func(c *fiber.Ctx) error {
		user, err := userService.GetByID(currentUserID(c))
		if err != nil {
			return serviceError(c, err)
		}

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
		}

		key := utils.AssetKey("avatars", user.Username, fileHeader.Filename)
		url, err := utils.UploadAsset(fileHeader, key)
		if err != nil {
			return serviceError(c, err)
		}

		user.AvatarURL = url
		if err := db.Save(user).Error; err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "avatar updated", "avatar_url": url})
	})

	// --- Admin ---

	admin := secured.Group("/admin", middleware.RequireRole(db, models.RoleAdmin))

	admin.Post("/departments", func(c *fiber.Ctx) error {
		var req struct {
			Name string `json:"name" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil || req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
		}
		dept, err := userService.CreateDepartment(req.Name)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dept)
	})

	admin.Post("/users", func(c *fiber.Ctx) error {
		var req struct {
			Username     string          `json:"username" validate:"required"`
			DisplayName  string          `json:"display_name" validate:"required"`
			DepartmentID *string         `json:"department_id"`
			Role         models.UserRole `json:"role" validate:"omitempty,oneof=admin hr hse manager employee"`
			JobTitle     string          `json:"job_title"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Username == "" || req.DisplayName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and display_name are required"})
		}

		user := models.User{
			Username:     req.Username,
			DisplayName:  req.DisplayName,
			DepartmentID: req.DepartmentID,
			JobTitle:     req.JobTitle,
			Role:         models.RoleEmployee,
		}
		if req.Role != "" {
			user.Role = req.Role
		}
		if err := userService.Register(&user); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user.Summary())
	})

	admin.Post("/xp/grant", func(c *fiber.Ctx) error {
		var req struct {
			UserID  string `json:"user_id" validate:"required,uuid"`
			XP      int64  `json:"xp" validate:"min=0"`
			Credits int64  `json:"credits" validate:"min=0"`
			Reason  string `json:"reason" validate:"max=255"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.UserID == "" || (req.XP <= 0 && req.Credits <= 0) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id and a positive xp or credits amount are required"})
		}
		if req.XP < 0 || req.Credits < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "xp and credits must not be negative"})
		}

		user, err := progressionService.AwardXP(req.UserID, req.XP, req.Credits, req.Reason)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "grant applied", "user": user.Summary()})
	})
}
