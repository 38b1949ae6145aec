package handlers

import (
	"strings"

	"wellness-engagement-system/middleware"
	"wellness-engagement-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SetupAuthRoutes wires login/logout/me. Login is username-only: identity is
// asserted by the corporate SSO in front of this service, so there is no
// password step here.
func SetupAuthRoutes(app *fiber.App, store *session.Store, userService *services.UserService) {
	app.Post("/api/auth/login", func(c *fiber.Ctx) error {
		var req struct {
			Username string `json:"username" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		username := strings.TrimSpace(req.Username)
		if username == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username is required"})
		}

		user, err := userService.GetByUsername(username)
		if err != nil {
			if err == services.ErrNotFound {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown user"})
			}
			return serviceError(c, err)
		}

		sess, err := store.Get(c)
		if err != nil {
			return serviceError(c, err)
		}
		sess.Set("user_id", user.ID)
		if err := sess.Save(); err != nil {
			return serviceError(c, err)
		}

		return c.JSON(user.Summary())
	})

	app.Post("/api/auth/logout", func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return serviceError(c, err)
		}
		if err := sess.Destroy(); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "logged out"})
	})

	app.Get("/api/auth/me", middleware.RequireAuth(store), func(c *fiber.Ctx) error {
		user, err := userService.GetByID(currentUserID(c))
		if err != nil {
			if err == services.ErrNotFound {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown user"})
			}
			return serviceError(c, err)
		}
		return c.JSON(user.Summary())
	})
}
