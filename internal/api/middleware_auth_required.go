package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, user)
	if user.MustChangePassword && !allowedBeforePasswordChange(c.Path()) {
		return apiError(c, fiber.StatusForbidden, "password change required")
	}

	return c.Next()
}

// allowedBeforePasswordChange lists the routes a user holding a temporary
// password may still call.
func allowedBeforePasswordChange(path string) bool {
	switch strings.TrimRight(strings.TrimSpace(path), "/") {
	case "/api/auth/change-password", "/api/auth/logout", "/api/auth/me":
		return true
	default:
		return false
	}
}
