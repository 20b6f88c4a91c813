package middleware

import (
	"learnhub/backend/config"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the fiber local holding the authenticated user id.
const UserIDKey = "userId"

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// SelfMiddleware rejects requests whose :userId path parameter is not the
// authenticated user.
func SelfMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUserID(c) == "" || CurrentUserID(c) != c.Params("userId") {
			return utils.Forbidden(c, "Access denied")
		}
		return c.Next()
	}
}

func CurrentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)
	return userID
}
