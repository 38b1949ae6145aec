package handlers

import (
	"errors"

	"wellness-engagement-system/middleware"
	"wellness-engagement-system/models"
	"wellness-engagement-system/services"
	"wellness-engagement-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// itemWithEligibility decorates a catalog row with the caller's purchase check
type itemWithEligibility struct {
	models.RewardItem
	Eligibility services.Eligibility `json:"eligibility"`
}

func SetupRewardRoutes(app *fiber.App, db *gorm.DB, store *session.Store,
	shopService *services.ShopService, achievementService *services.AchievementService) {

	secured := app.Group("/api", middleware.RequireAuth(store))

	// --- Shop (user) ---

	secured.Get("/rewards", func(c *fiber.Ctx) error {
		items, err := shopService.ListPublished()
		if err != nil {
			return serviceError(c, err)
		}

		var user models.User
		if err := db.Where("id = ?", currentUserID(c)).First(&user).Error; err != nil {
			return serviceError(c, err)
		}

		response := make([]itemWithEligibility, len(items))
		for i := range items {
			response[i] = itemWithEligibility{
				RewardItem:  items[i],
				Eligibility: services.EligibilityFor(&items[i], &user),
			}
		}
		return c.JSON(response)
	})

	secured.Post("/rewards/:id/purchase", func(c *fiber.Ctx) error {
		purchase, err := shopService.Purchase(currentUserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(purchase)
	})

	secured.Get("/purchases", func(c *fiber.Ctx) error {
		purchases, err := shopService.ListPurchases(currentUserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(purchases)
	})

	// --- Achievements (user) ---

	secured.Get("/achievements", func(c *fiber.Ctx) error {
		rows, err := achievementService.ListForUser(currentUserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(rows)
	})

	secured.Post("/achievements/:id/claim", func(c *fiber.Ctx) error {
		claimed, err := achievementService.Claim(currentUserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "achievement claimed", "achievement": claimed})
	})

	// --- Shop catalog (admin) ---

	admin := secured.Group("/admin", middleware.RequireRole(db, models.RoleAdmin))

	admin.Get("/rewards", func(c *fiber.Ctx) error {
		var items []models.RewardItem
		if err := db.Order("created_at DESC").Find(&items).Error; err != nil {
			return serviceError(c, err)
		}
		return c.JSON(items)
	})

	admin.Post("/rewards", func(c *fiber.Ctx) error {
		var req struct {
			Name               string                  `json:"name" validate:"required"`
			Description        string                  `json:"description"`
			Category           string                  `json:"category"`
			CreditCost         int64                   `json:"credit_cost" validate:"min=0"`
			DiscountPercentage int                     `json:"discount_percentage" validate:"min=0,max=100"`
			XPRequired         int64                   `json:"xp_required" validate:"min=0"`
			LevelRequired      int                     `json:"level_required" validate:"min=0"`
			Stock              *int64                  `json:"stock"`
			Status             models.RewardItemStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if req.Name == "" || req.CreditCost < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and a non-negative credit_cost are required"})
		}
		if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "discount_percentage must be between 0 and 100"})
		}
		if req.Stock != nil && *req.Stock < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stock must not be negative"})
		}

		item := models.RewardItem{
			ID:                 uuid.NewString(),
			Name:               req.Name,
			Description:        req.Description,
			Category:           req.Category,
			CreditCost:         req.CreditCost,
			DiscountPercentage: req.DiscountPercentage,
			XPRequired:         req.XPRequired,
			LevelRequired:      req.LevelRequired,
			Stock:              req.Stock,
			Status:             models.RewardItemDraft,
		}
		if req.Status != "" {
			item.Status = req.Status
		}
		if err := db.Create(&item).Error; err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	admin.Put("/rewards/:id", func(c *fiber.Ctx) error {
		var item models.RewardItem
		if err := db.Where("id = ?", c.Params("id")).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
			}
			return serviceError(c, err)
		}

		var req struct {
			Name               *string                  `json:"name"`
			Description        *string                  `json:"description"`
			Category           *string                  `json:"category"`
			CreditCost         *int64                   `json:"credit_cost"`
			DiscountPercentage *int                     `json:"discount_percentage"`
			XPRequired         *int64                   `json:"xp_required"`
			LevelRequired      *int                     `json:"level_required"`
			Stock              *int64                   `json:"stock"`
			Status             *models.RewardItemStatus `json:"status"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.CreditCost != nil {
			if *req.CreditCost < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "credit_cost must not be negative"})
			}
			item.CreditCost = *req.CreditCost
		}
		if req.DiscountPercentage != nil {
			if *req.DiscountPercentage < 0 || *req.DiscountPercentage > 100 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "discount_percentage must be between 0 and 100"})
			}
			item.DiscountPercentage = *req.DiscountPercentage
		}
		if req.XPRequired != nil {
			item.XPRequired = *req.XPRequired
		}
		if req.LevelRequired != nil {
			item.LevelRequired = *req.LevelRequired
		}
		if req.Stock != nil {
			item.Stock = req.Stock
		}
		if req.Status != nil {
			item.Status = *req.Status
		}

		if err := db.Save(&item).Error; err != nil {
			return serviceError(c, err)
		}
		return c.JSON(item)
	})

	admin.Post("/rewards/:id/image", func(c *fiber.Ctx) error {
		var item models.RewardItem
		if err := db.Where("id = ?", c.Params("id")).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
			}
			return serviceError(c, err)
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
		}

		key := utils.AssetKey("rewards", item.Name, fileHeader.Filename)
		url, err := utils.UploadAsset(fileHeader, key)
		if err != nil {
			return serviceError(c, err)
		}

		item.ImageURL = url
		if err := db.Save(&item).Error; err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "image uploaded", "image_url": url})
	})
}
