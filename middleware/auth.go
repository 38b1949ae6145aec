package middleware

import (
	"os"
	"time"

	"wellness-engagement-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

// NewSessionStore builds the in-memory cookie session store (24h lifetime).
// Sessions are not durable across restarts; that matches the deployment
// model this service replaces.
func NewSessionStore() *session.Store {
	cookieName := os.Getenv("SESSION_COOKIE_NAME")
	if cookieName == "" {
		cookieName = "wellness_session"
	}
	return session.New(session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// RequireAuth resolves the session cookie to a user id and attaches it to
// the request context. 401 on missing/expired sessions.
func RequireAuth(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session unavailable"})
		}

		userID, _ := sess.Get("user_id").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after RequireAuth.
// The role is read from the DB on each request, not from the session, so a
// role change takes effect immediately.
func RequireRole(db *gorm.DB, roles ...models.UserRole) fiber.Handler {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
		}

		var user models.User
		if err := db.Select("role").Where("id = ?", userID).First(&user).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown user"})
		}

		if !allowed[user.Role] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient role"})
		}

		c.Locals("user_role", user.Role)
		return c.Next()
	}
}
