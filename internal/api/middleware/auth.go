// Package middleware provides fiber middleware for the API
package middleware

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/fittrackd/fittrackd/internal/db/models"
	"github.com/fittrackd/fittrackd/internal/db/repos"
)

// Locals keys
const (
	// UserKey is the locals key holding the authenticated user
	UserKey = "auth_user"
	// UserIDHeader carries the authenticated user id. Token validation is
	// owned by the gateway in front of this service.
	UserIDHeader = "X-User-ID"
)

// CurrentUser returns the authenticated user stored by RequireUser
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}

// RequireUser resolves the calling user from the id header and rejects
// requests from unknown accounts. Suspended accounts are not rejected
// here: they must still be able to contest their sanction.
func RequireUser(users *repos.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Get(UserIDHeader), 10, 32)
		if err != nil || id == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "fail",
				"message": "authentication required",
			})
		}

		user, err := users.GetByID(c.Context(), uint(id))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "fail",
				"message": "authentication required",
			})
		}
		c.Locals(UserKey, user)
		return c.Next()
	}
}

// RequireModerator rejects users without moderation rights
func RequireModerator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.Role.HasModerationRights() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "fail",
				"message": "you do not have permissions",
			})
		}
		return c.Next()
	}
}
