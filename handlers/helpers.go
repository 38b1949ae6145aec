package handlers

import (
	"errors"

	"wellness-engagement-system/services"
	"wellness-engagement-system/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// serviceError maps typed service errors onto HTTP statuses. Anything
// unrecognized is a storage/internal failure: logged with the cause,
// surfaced as a generic 500 — never reinterpreted as "not found".
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, services.ErrAlreadyEnrolled),
		errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrAlreadyRegistered):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotUnlocked),
		errors.Is(err, services.ErrNotPurchasable),
		errors.Is(err, services.ErrInsufficientCredits),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrLevelTooLow),
		errors.Is(err, services.ErrXPTooLow),
		errors.Is(err, services.ErrEventFull),
		errors.Is(err, services.ErrNegativeAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	utils.Logger.Error("request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
