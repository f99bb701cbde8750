package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/services"
	"github.com/terraincognita07/vitalink/internal/storage"
)

type errorMapping struct {
	target error
	status int
}

// serviceErrorStatuses is checked in order with errors.Is; the sentinel's
// own message becomes the response body.
var serviceErrorStatuses = []errorMapping{
	{services.ErrInvalidDateFormat, fiber.StatusBadRequest},
	{services.ErrMissingTherapyConfiguration, fiber.StatusBadRequest},
	{services.ErrInvalidDosageAmount, fiber.StatusBadRequest},
	{services.ErrAlreadyRecorded, fiber.StatusBadRequest},
	{services.ErrWeakPassword, fiber.StatusBadRequest},
	{services.ErrInvalidLoginID, fiber.StatusBadRequest},
	{services.ErrInvalidCurrentPassword, fiber.StatusBadRequest},
	{services.ErrPasswordMustDiffer, fiber.StatusBadRequest},
	{services.ErrPatientNameRequired, fiber.StatusBadRequest},
	{services.ErrInvalidGender, fiber.StatusBadRequest},
	{services.ErrInvalidAge, fiber.StatusBadRequest},
	{services.ErrInvalidAccountStatus, fiber.StatusBadRequest},
	{services.ErrInvalidINRValue, fiber.StatusBadRequest},
	{services.ErrInvalidTargetINR, fiber.StatusBadRequest},
	{services.ErrInvalidHealthLogType, fiber.StatusBadRequest},
	{services.ErrInvalidSeverity, fiber.StatusBadRequest},
	{services.ErrHealthLogDescriptionRequired, fiber.StatusBadRequest},
	{services.ErrInvalidInstructions, fiber.StatusBadRequest},
	{services.ErrDoctorNameRequired, fiber.StatusBadRequest},
	{services.ErrContactRequired, fiber.StatusBadRequest},
	{services.ErrTargetDoctorNotFound, fiber.StatusBadRequest},
	{services.ErrLoginIDTaken, fiber.StatusConflict},
	{services.ErrPatientNotAssigned, fiber.StatusForbidden},
	{services.ErrAccountInactive, fiber.StatusForbidden},
	{services.ErrPatientNotFound, fiber.StatusNotFound},
	{services.ErrDoctorNotFound, fiber.StatusNotFound},
	{services.ErrReportNotFound, fiber.StatusNotFound},
	{services.ErrUserNotFound, fiber.StatusNotFound},
	{storage.ErrInvalidContentType, fiber.StatusBadRequest},
	{storage.ErrUnknownCategory, fiber.StatusBadRequest},
	{storage.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},
	{storage.ErrFileNotFound, fiber.StatusNotFound},
}

func (handler *Handler) serviceError(c *fiber.Ctx, err error, fallback string) error {
	for _, mapping := range serviceErrorStatuses {
		if errors.Is(err, mapping.target) {
			return apiError(c, mapping.status, mapping.target.Error())
		}
	}

	handler.logger.Error().Err(err).Str("path", c.Path()).Msg(fallback)
	return apiError(c, fiber.StatusInternalServerError, fallback)
}

// ErrorHandler renders errors that escape a handler, such as fiber's own
// 404 and 405 errors or recovered panics, with the same body as apiError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}
	return apiError(c, status, message)
}
