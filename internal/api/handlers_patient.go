package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/services"
	"github.com/terraincognita07/vitalink/internal/storage"
)

type reportInput struct {
	INRValue any    `json:"inr_value"`
	TestDate string `json:"test_date"`
	Notes    string `json:"notes"`
}

func (handler *Handler) PatientProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	overview, err := handler.patientService.Overview(user.ID)
	if err != nil {
		return handler.serviceError(c, err, "failed to load profile")
	}
	return respond(c, fiber.StatusOK, "Profile fetched successfully", overview)
}

func (handler *Handler) UpdatePatientProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	patch := services.PatientProfilePatch{}
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	profile, err := handler.patientService.UpdateProfile(user.ID, patch)
	if err != nil {
		return handler.serviceError(c, err, "failed to update profile")
	}
	return respond(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{"profile": profile})
}

func (handler *Handler) PatientReports(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	reports, err := handler.patientService.Reports(user.ID)
	if err != nil {
		return handler.serviceError(c, err, "failed to load reports")
	}
	return respond(c, fiber.StatusOK, "Report fetched", fiber.Map{"report": reports})
}

// SubmitReport accepts a JSON body or a multipart form with an optional
// scan of the lab report in the "file" field.
func (handler *Handler) SubmitReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.INRReportInput{}
	if isMultipart(c) {
		input.INRValue = c.FormValue("inr_value")
		input.TestDate = c.FormValue("test_date")
		input.Notes = c.FormValue("notes")
	} else {
		body := reportInput{}
		if err := c.BodyParser(&body); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
		if body.INRValue != nil {
			input.INRValue = fmt.Sprint(body.INRValue)
		}
		input.TestDate = body.TestDate
		input.Notes = body.Notes
	}

	upload, err := optionalUpload(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid upload")
	}
	if upload != nil {
		stored, err := handler.storeUpload(upload, storage.CategoryINRReport)
		if err != nil {
			return handler.serviceError(c, err, "failed to store report file")
		}
		input.FileKey = stored.Key
	}

	report, err := handler.patientService.SubmitReport(user.ID, input)
	if err != nil {
		return handler.serviceError(c, err, "failed to submit report")
	}
	return respond(c, fiber.StatusCreated, "Report submitted", fiber.Map{"report": report})
}

func (handler *Handler) UpsertHealthLog(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.HealthLogInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.patientService.UpsertHealthLog(user.ID, input)
	if err != nil {
		return handler.serviceError(c, err, "failed to update health logs")
	}
	return respond(c, fiber.StatusOK, "Health logs updated successfully", fiber.Map{"health_log": entry})
}

func (handler *Handler) UpdatePatientProfilePicture(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	key, err := handler.requireProfilePicture(c)
	if err != nil || key == "" {
		return err
	}
	if err := handler.patientService.UpdateProfilePicture(user.ID, key); err != nil {
		return handler.serviceError(c, err, "failed to update profile picture")
	}
	return respond(c, fiber.StatusOK, "Profile picture successfully changed", fiber.Map{"profile_picture": key})
}

// requireProfilePicture stores the uploaded image. An empty key means the
// error response has been written already.
func (handler *Handler) requireProfilePicture(c *fiber.Ctx) (string, error) {
	upload, err := optionalUpload(c)
	if err != nil {
		return "", apiError(c, fiber.StatusBadRequest, "invalid upload")
	}
	if upload == nil {
		return "", apiError(c, fiber.StatusBadRequest, "Image is required for setting up profile picture")
	}

	stored, err := handler.storeUpload(upload, storage.CategoryProfilePicture)
	if err != nil {
		return "", handler.serviceError(c, err, "failed to store profile picture")
	}
	return stored.Key, nil
}
