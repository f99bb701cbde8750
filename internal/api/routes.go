package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/metrics"
	"github.com/terraincognita07/vitalink/internal/models"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", metrics.Handler())

	registerAPIRoutes(app, handler)

	app.Use(handler.NotFound)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Get("/setup-status", handler.SetupStatus)
	auth.Post("/setup", handler.LoginRateLimit, handler.Setup)
	auth.Post("/login", handler.LoginRateLimit, handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	patient := api.Group("/patient", handler.AuthRequired, handler.RoleRequired(models.RolePatient))
	patient.Get("/profile", handler.PatientProfile)
	patient.Put("/profile", handler.UpdatePatientProfile)
	patient.Get("/reports", handler.PatientReports)
	patient.Post("/reports", handler.SubmitReport)
	patient.Get("/missed-doses", handler.MissedDoses)
	patient.Get("/dosage-calendar", handler.DosageCalendar)
	patient.Post("/dosage", handler.TakeDosage)
	patient.Post("/health-logs", handler.UpsertHealthLog)
	patient.Post("/profile-pic", handler.UpdatePatientProfilePicture)

	doctors := api.Group("/doctors", handler.AuthRequired, handler.RoleRequired(models.RoleDoctor))
	doctors.Get("/patients", handler.DoctorPatients)
	doctors.Post("/patients", handler.DoctorCreatePatient)
	doctors.Get("/patients/:op_num", handler.DoctorPatient)
	doctors.Patch("/patients/:op_num/reassign", handler.DoctorReassignPatient)
	doctors.Put("/patients/:op_num/dosage", handler.DoctorUpdateDosage)
	doctors.Get("/patients/:op_num/reports", handler.DoctorPatientReports)
	doctors.Get("/patients/:op_num/reports/:report_id", handler.DoctorPatientReport)
	doctors.Put("/patients/:op_num/reports/:report_id", handler.DoctorReviewReport)
	doctors.Put("/patients/:op_num/config", handler.DoctorUpdateNextReview)
	doctors.Put("/patients/:op_num/instructions", handler.DoctorUpdateInstructions)
	doctors.Get("/patients/:op_num/missed-doses", handler.PatientMissedDoses)
	doctors.Get("/patients/:op_num/dosage-calendar", handler.PatientDosageCalendar)
	doctors.Get("/profile", handler.DoctorProfile)
	doctors.Put("/profile", handler.UpdateDoctorProfile)
	doctors.Get("/doctors", handler.DoctorDirectory)
	doctors.Post("/profile-pic", handler.UpdateDoctorProfilePicture)

	admin := api.Group("/admin", handler.AuthRequired, handler.RoleRequired(models.RoleAdmin))
	admin.Post("/doctors", handler.AdminCreateDoctor)
	admin.Get("/doctors", handler.AdminListDoctors)
	admin.Get("/doctors/:id", handler.AdminDoctor)
	admin.Put("/doctors/:id", handler.AdminUpdateDoctor)
	admin.Post("/patients", handler.AdminCreatePatient)
	admin.Get("/patients", handler.AdminListPatients)
	admin.Get("/patients/:op_num", handler.AdminPatient)
	admin.Put("/patients/:op_num", handler.AdminUpdatePatient)
	admin.Patch("/patients/:op_num/reassign", handler.AdminReassignPatient)

	api.Get("/files/*", handler.AuthRequired, handler.ServeFile)
}
