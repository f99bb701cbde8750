package api

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/services"
)

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	loginID := services.NormalizeLoginID(input.LoginID)
	limiterKey := failedLoginKey(requestLimiterKey(c), loginID)
	now := handler.now()
	if locked, retryAfter := handler.failedLogins.locked(limiterKey, now); locked {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		return apiError(c, fiber.StatusTooManyRequests, "too many failed login attempts, please try again later")
	}

	user, err := handler.authService.Authenticate(input.LoginID, input.Password)
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		handler.failedLogins.fail(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrAccountInactive):
		return apiError(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		return handler.serviceError(c, err, "failed to sign in")
	}
	handler.failedLogins.clear(limiterKey)

	token, expiresAt, err := handler.buildToken(&user, handler.tokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return respond(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token":                token,
		"role":                 user.Role,
		"expires_at":           expiresAt.UTC(),
		"must_change_password": user.MustChangePassword,
	})
}

// Logout is acknowledged only; bearer tokens stay valid until they expire.
func (handler *Handler) Logout(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "Logged out successfully", nil)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return respond(c, fiber.StatusOK, "User fetched successfully", fiber.Map{"user": user})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.NewPassword {
		return apiError(c, fiber.StatusBadRequest, "password mismatch")
	}

	if err := handler.authService.ChangePassword(user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		return handler.serviceError(c, err, "failed to update password")
	}
	return respond(c, fiber.StatusOK, "Password updated successfully", nil)
}

func (handler *Handler) SetupStatus(c *fiber.Ctx) error {
	needsSetup, err := handler.setupService.RequiresInitialSetup()
	if err != nil {
		return handler.serviceError(c, err, "failed to read setup status")
	}
	return respond(c, fiber.StatusOK, "Setup status fetched", fiber.Map{"needs_setup": needsSetup})
}

// Setup creates the first administrator. It is refused once any account exists.
func (handler *Handler) Setup(c *fiber.Ctx) error {
	needsSetup, err := handler.setupService.RequiresInitialSetup()
	if err != nil {
		return handler.serviceError(c, err, "failed to read setup status")
	}
	if !needsSetup {
		return apiError(c, fiber.StatusConflict, "setup already completed")
	}

	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	admin, err := handler.setupService.CreateAdmin(input.LoginID, input.Password)
	if err != nil {
		return handler.serviceError(c, err, "failed to create admin")
	}
	return respond(c, fiber.StatusCreated, "Admin created successfully", fiber.Map{"user": admin})
}
