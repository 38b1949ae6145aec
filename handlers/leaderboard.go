package handlers

import (
	"strconv"

	"wellness-engagement-system/middleware"
	"wellness-engagement-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

func SetupLeaderboardRoutes(app *fiber.App, store *session.Store, leaderboardService *services.LeaderboardService) {
	secured := app.Group("/api", middleware.RequireAuth(store))

	secured.Get("/leaderboard", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "0")) // 0 = default page size

		result, err := leaderboardService.Rank(services.LeaderboardFilter{
			Department: c.Query("department"),
			Query:      c.Query("q"),
			Page:       page,
			PageSize:   limit,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(result)
	})
}
