package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/models"
)

var roleAccessMessages = map[string]string{
	models.RoleAdmin:   "admin access only",
	models.RoleDoctor:  "doctor access only",
	models.RolePatient: "patient access only",
}

func (handler *Handler) RoleRequired(role string) fiber.Handler {
	message, ok := roleAccessMessages[role]
	if !ok {
		message = "access denied"
	}
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return apiError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		if user.Role != role {
			return apiError(c, fiber.StatusForbidden, message)
		}
		return c.Next()
	}
}
