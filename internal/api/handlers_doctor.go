package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/services"
)

func (handler *Handler) DoctorPatients(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	patients, err := handler.doctorService.ListPatients(user.ID)
	if err != nil {
		return handler.serviceError(c, err, "failed to list patients")
	}
	return respond(c, fiber.StatusOK, "Patients fetched successfully", fiber.Map{"patients": patients})
}

func (handler *Handler) DoctorPatient(c *fiber.Ctx) error {
	record, ok, err := handler.assignedPatient(c)
	if !ok {
		return err
	}
	return respond(c, fiber.StatusOK, "Patient fetched successfully", fiber.Map{"patient": record})
}

func (handler *Handler) DoctorCreatePatient(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.CreatePatientInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	record, err := handler.doctorService.CreatePatient(user.ID, input)
	if err != nil {
		return handler.serviceError(c, err, "failed to create patient")
	}
	return respond(c, fiber.StatusCreated, "Patient created successfully", fiber.Map{"patient": record})
}

func (handler *Handler) DoctorReassignPatient(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := reassignInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	record, err := handler.doctorService.ReassignPatient(user.ID, c.Params("op_num"), input.NewDoctorID)
	if err != nil {
		return handler.serviceError(c, err, "failed to reassign patient")
	}
	return respond(c, fiber.StatusOK, "Patient reassigned successfully", fiber.Map{"patient": record})
}

func (handler *Handler) DoctorUpdateDosage(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := dosageInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	record, err := handler.doctorService.UpdateDosage(user.ID, c.Params("op_num"), input.Prescription)
	if err != nil {
		return handler.serviceError(c, err, "failed to update dosage")
	}
	return respond(c, fiber.StatusOK, "Dosage updated successfully", fiber.Map{"patient": record})
}

func (handler *Handler) DoctorPatientReports(c *fiber.Ctx) error {
	record, ok, err := handler.assignedPatient(c)
	if !ok {
		return err
	}

	reports, err := handler.patientService.ReportsForProfile(record.PatientProfile)
	if err != nil {
		return handler.serviceError(c, err, "failed to load reports")
	}
	return respond(c, fiber.StatusOK, "INR reports fetched successfully", reports)
}

func (handler *Handler) DoctorPatientReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	reportID, ok := parseUintParam(c, "report_id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid report_id or op_num")
	}

	report, err := handler.doctorService.Report(user.ID, c.Params("op_num"), reportID)
	if err != nil {
		return handler.serviceError(c, err, "failed to load report")
	}
	return respond(c, fiber.StatusOK, "Report fetched successfully", fiber.Map{"report": report})
}

func (handler *Handler) DoctorReviewReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	reportID, ok := parseUintParam(c, "report_id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid report_id or op_num")
	}

	review := services.ReportReview{}
	if err := c.BodyParser(&review); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	report, err := handler.doctorService.ReviewReport(user.ID, c.Params("op_num"), reportID, review)
	if err != nil {
		return handler.serviceError(c, err, "failed to update report")
	}
	return respond(c, fiber.StatusOK, "Report updated successfully", fiber.Map{"report": report})
}

func (handler *Handler) DoctorUpdateNextReview(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := nextReviewInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	record, err := handler.doctorService.UpdateNextReview(user.ID, c.Params("op_num"), input.Date)
	if err != nil {
		return handler.serviceError(c, err, "failed to update next review date")
	}
	return respond(c, fiber.StatusOK, "Next review date updated successfully", fiber.Map{"patient": record})
}

func (handler *Handler) DoctorUpdateInstructions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := instructionsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, services.ErrInvalidInstructions.Error())
	}

	record, err := handler.doctorService.UpdateInstructions(user.ID, c.Params("op_num"), input.Instructions)
	if err != nil {
		return handler.serviceError(c, err, "failed to update instructions")
	}
	return respond(c, fiber.StatusOK, "Instructions updated successfully", fiber.Map{"patient": record})
}

func (handler *Handler) DoctorProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	overview, err := handler.doctorService.Overview(user.ID)
	if err != nil {
		return handler.serviceError(c, err, "failed to load profile")
	}
	return respond(c, fiber.StatusOK, "Profile fetched successfully", overview)
}

func (handler *Handler) UpdateDoctorProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	patch := services.DoctorProfilePatch{}
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.doctorService.UpdateProfile(user.ID, patch); err != nil {
		return handler.serviceError(c, err, "failed to update profile")
	}
	return respond(c, fiber.StatusOK, "Profile updated successfully", nil)
}

func (handler *Handler) DoctorDirectory(c *fiber.Ctx) error {
	doctors, err := handler.doctorService.ListDoctors()
	if err != nil {
		return handler.serviceError(c, err, "failed to list doctors")
	}
	return respond(c, fiber.StatusOK, "Doctors fetched successfully", fiber.Map{"doctors": doctors})
}

func (handler *Handler) UpdateDoctorProfilePicture(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	key, err := handler.requireProfilePicture(c)
	if err != nil || key == "" {
		return err
	}
	if err := handler.doctorService.UpdateProfilePicture(user.ID, key); err != nil {
		return handler.serviceError(c, err, "failed to update profile picture")
	}
	return respond(c, fiber.StatusOK, "Profile picture successfully changed", fiber.Map{"profile_picture": key})
}
