package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/services"
)

func (handler *Handler) AdminCreateDoctor(c *fiber.Ctx) error {
	input := services.CreateDoctorInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	doctor, err := handler.adminService.CreateDoctor(input)
	if err != nil {
		return handler.serviceError(c, err, "failed to create doctor")
	}
	return respond(c, fiber.StatusCreated, "Doctor created successfully", fiber.Map{"doctor": doctor})
}

func (handler *Handler) AdminListDoctors(c *fiber.Ctx) error {
	isActive, ok := parseOptionalBoolQuery(c, "is_active")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "is_active must be true or false")
	}

	page, err := handler.adminService.ListDoctors(services.DoctorQuery{
		Department: strings.TrimSpace(c.Query("department")),
		IsActive:   isActive,
		Search:     strings.TrimSpace(c.Query("search")),
		Page:       parsePositiveQueryInt(c, "page"),
		Limit:      parsePositiveQueryInt(c, "limit"),
	})
	if err != nil {
		return handler.serviceError(c, err, "failed to list doctors")
	}
	return respond(c, fiber.StatusOK, "Doctors fetched successfully", page)
}

func (handler *Handler) AdminDoctor(c *fiber.Ctx) error {
	doctorID, ok := parseUintParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid doctor id")
	}

	doctor, err := handler.adminService.Doctor(doctorID)
	if err != nil {
		return handler.serviceError(c, err, "failed to load doctor")
	}
	return respond(c, fiber.StatusOK, "Doctor fetched successfully", fiber.Map{"doctor": doctor})
}

func (handler *Handler) AdminUpdateDoctor(c *fiber.Ctx) error {
	doctorID, ok := parseUintParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid doctor id")
	}

	update := services.AdminDoctorUpdate{}
	if err := c.BodyParser(&update); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	doctor, err := handler.adminService.UpdateDoctor(doctorID, update)
	if err != nil {
		return handler.serviceError(c, err, "failed to update doctor")
	}
	return respond(c, fiber.StatusOK, "Doctor updated successfully", fiber.Map{"doctor": doctor})
}

func (handler *Handler) AdminCreatePatient(c *fiber.Ctx) error {
	input := services.CreatePatientInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	record, err := handler.adminService.CreatePatient(input)
	if err != nil {
		return handler.serviceError(c, err, "failed to create patient")
	}
	return respond(c, fiber.StatusCreated, "Patient created successfully", fiber.Map{"patient": record})
}

func (handler *Handler) AdminListPatients(c *fiber.Ctx) error {
	page, err := handler.adminService.ListPatients(services.PatientQuery{
		AccountStatus: strings.TrimSpace(c.Query("account_status")),
		Search:        strings.TrimSpace(c.Query("search")),
		Page:          parsePositiveQueryInt(c, "page"),
		Limit:         parsePositiveQueryInt(c, "limit"),
	})
	if err != nil {
		return handler.serviceError(c, err, "failed to list patients")
	}
	return respond(c, fiber.StatusOK, "Patients fetched successfully", page)
}

func (handler *Handler) AdminPatient(c *fiber.Ctx) error {
	record, err := handler.adminService.Patient(c.Params("op_num"))
	if err != nil {
		return handler.serviceError(c, err, "failed to load patient")
	}
	return respond(c, fiber.StatusOK, "Patient fetched successfully", fiber.Map{"patient": record})
}

func (handler *Handler) AdminUpdatePatient(c *fiber.Ctx) error {
	patch := services.PatientProfilePatch{}
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	record, err := handler.adminService.UpdatePatient(c.Params("op_num"), patch)
	if err != nil {
		return handler.serviceError(c, err, "failed to update patient")
	}
	return respond(c, fiber.StatusOK, "Patient updated successfully", fiber.Map{"patient": record})
}

func (handler *Handler) AdminReassignPatient(c *fiber.Ctx) error {
	input := reassignInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	record, err := handler.adminService.ReassignPatient(c.Params("op_num"), input.NewDoctorID)
	if err != nil {
		return handler.serviceError(c, err, "failed to reassign patient")
	}
	return respond(c, fiber.StatusOK, "Patient reassigned successfully", fiber.Map{"patient": record})
}
