package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/metrics"
	"github.com/terraincognita07/vitalink/internal/models"
	"github.com/terraincognita07/vitalink/internal/services"
)

func (handler *Handler) MissedDoses(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	partition, err := handler.doseService.MissedDoses(user.ID)
	if err != nil {
		return handler.serviceError(c, err, "failed to calculate missed doses")
	}
	return respond(c, fiber.StatusOK, "Missed doses calculated", missedDosesView(partition))
}

func (handler *Handler) DosageCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	calendar, err := handler.doseService.DosageCalendar(user.ID, c.Query("months"), c.Query("start_date"))
	if err != nil {
		return handler.serviceError(c, err, "failed to build dosage calendar")
	}
	return respond(c, fiber.StatusOK, "Calendar data fetched", dosageCalendarView(calendar))
}

func (handler *Handler) TakeDosage(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := takeDosageInput{}
	if err := c.BodyParser(&input); err != nil {
		metrics.ObserveDoseRecord(metrics.DoseResultRejected)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	taken, err := handler.doseService.RecordDoseTaken(user.ID, input.Date)
	switch {
	case errors.Is(err, services.ErrAlreadyRecorded):
		metrics.ObserveDoseRecord(metrics.DoseResultDuplicate)
		return apiError(c, fiber.StatusBadRequest, "This dose has already been marked as taken")
	case err != nil:
		metrics.ObserveDoseRecord(metrics.DoseResultRejected)
		return handler.serviceError(c, err, "failed to log dosage")
	}

	metrics.ObserveDoseRecord(metrics.DoseResultRecorded)
	return respond(c, fiber.StatusOK, "Dosage logged successfully", fiber.Map{
		"taken_doses": services.FormatDates(taken.Dates()),
	})
}

// Doctor-side views of an assigned patient's adherence.

func (handler *Handler) PatientMissedDoses(c *fiber.Ctx) error {
	record, ok, err := handler.assignedPatient(c)
	if !ok {
		return err
	}

	partition, err := handler.doseService.MissedDosesForProfile(record.PatientProfile)
	if err != nil {
		return handler.serviceError(c, err, "failed to calculate missed doses")
	}
	return respond(c, fiber.StatusOK, "Missed doses calculated", missedDosesView(partition))
}

func (handler *Handler) PatientDosageCalendar(c *fiber.Ctx) error {
	record, ok, err := handler.assignedPatient(c)
	if !ok {
		return err
	}

	calendar, err := handler.doseService.DosageCalendarForProfile(record.PatientProfile, c.Query("months"), c.Query("start_date"))
	if err != nil {
		return handler.serviceError(c, err, "failed to build dosage calendar")
	}
	return respond(c, fiber.StatusOK, "Calendar data fetched", dosageCalendarView(calendar))
}

// assignedPatient resolves :op_num for the signed-in doctor. When ok is
// false the response has already been written and err is its result.
func (handler *Handler) assignedPatient(c *fiber.Ctx) (models.PatientRecord, bool, error) {
	user, ok := currentUser(c)
	if !ok {
		return models.PatientRecord{}, false, apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	record, err := handler.doctorService.AssignedPatient(user.ID, c.Params("op_num"))
	if err != nil {
		return models.PatientRecord{}, false, handler.serviceError(c, err, "failed to load patient")
	}
	return record, true, nil
}

func missedDosesView(partition services.MissedDosePartition) fiber.Map {
	return fiber.Map{
		"recent_missed_doses": services.FormatDates(partition.Recent),
		"missed_doses":        services.FormatDates(partition.Older),
	}
}

func dosageCalendarView(calendar services.DosageCalendar) fiber.Map {
	entries := make([]calendarEntryView, 0, len(calendar.Entries))
	for _, entry := range calendar.Entries {
		entries = append(entries, calendarEntryView{
			Date:      entry.Date.String(),
			Status:    string(entry.Status),
			Dosage:    entry.Dosage,
			DayOfWeek: entry.Weekday.String(),
		})
	}
	return fiber.Map{
		"calendar_data": entries,
		"date_range": dateRangeView{
			Start: calendar.RangeStart.String(),
			End:   calendar.RangeEnd.String(),
		},
		"therapy_start": calendar.TherapyStart.String(),
	}
}
