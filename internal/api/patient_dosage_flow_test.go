package api

import (
	"encoding/json"
	"net/http"
	"reflect"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type missedDosesData struct {
	Recent []string `json:"recent_missed_doses"`
	Older  []string `json:"missed_doses"`
}

type calendarData struct {
	Entries      []calendarEntryView `json:"calendar_data"`
	DateRange    dateRangeView       `json:"date_range"`
	TherapyStart string              `json:"therapy_start"`
}

func decodeData[T any](t *testing.T, body envelope) T {
	t.Helper()

	var value T
	if err := json.Unmarshal(body.Data, &value); err != nil {
		t.Fatalf("decode data %s: %v", body.Data, err)
	}
	return value
}

func TestPatientRecordsDoseAndMissedDosesShrink(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testPatientLogin, testPatientPassword)

	before := decodeData[missedDosesData](t, expectStatus(t, env.do(t, http.MethodGet, "/api/patient/missed-doses", token, nil), fiber.StatusOK))
	if !reflect.DeepEqual(before.Recent, []string{"05-06-2024", "07-06-2024", "10-06-2024"}) {
		t.Fatalf("unexpected recent missed doses: %v", before.Recent)
	}
	if !reflect.DeepEqual(before.Older, []string{"03-06-2024"}) {
		t.Fatalf("unexpected older missed doses: %v", before.Older)
	}

	recorded := expectStatus(t, env.do(t, http.MethodPost, "/api/patient/dosage", token, map[string]string{"date": "10-06-2024"}), fiber.StatusOK)
	taken := decodeData[struct {
		TakenDoses []string `json:"taken_doses"`
	}](t, recorded)
	if !reflect.DeepEqual(taken.TakenDoses, []string{"10-06-2024"}) {
		t.Fatalf("unexpected taken doses: %v", taken.TakenDoses)
	}

	after := decodeData[missedDosesData](t, expectStatus(t, env.do(t, http.MethodGet, "/api/patient/missed-doses", token, nil), fiber.StatusOK))
	if !reflect.DeepEqual(after.Recent, []string{"05-06-2024", "07-06-2024"}) {
		t.Fatalf("unexpected recent missed doses after recording: %v", after.Recent)
	}
}

func TestPatientDuplicateDoseIsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testPatientLogin, testPatientPassword)

	expectStatus(t, env.do(t, http.MethodPost, "/api/patient/dosage", token, map[string]string{"date": "2024-06-10"}), fiber.StatusOK)
	duplicate := expectStatus(t, env.do(t, http.MethodPost, "/api/patient/dosage", token, map[string]string{"date": "10-06-2024"}), fiber.StatusBadRequest)
	if duplicate.Error != "This dose has already been marked as taken" {
		t.Fatalf("unexpected duplicate error %q", duplicate.Error)
	}
}

func TestPatientDoseDateValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testPatientLogin, testPatientPassword)

	for _, raw := range []string{"", "31-04-2024", "10/06/2024", "tomorrow"} {
		body := expectStatus(t, env.do(t, http.MethodPost, "/api/patient/dosage", token, map[string]string{"date": raw}), fiber.StatusBadRequest)
		if body.Error != "date must be in DD-MM-YYYY format" {
			t.Fatalf("%q: unexpected error %q", raw, body.Error)
		}
	}
}

func TestPatientDosageCalendar(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testPatientLogin, testPatientPassword)

	expectStatus(t, env.do(t, http.MethodPost, "/api/patient/dosage", token, map[string]string{"date": "05-06-2024"}), fiber.StatusOK)

	calendar := decodeData[calendarData](t, expectStatus(t, env.do(t, http.MethodGet, "/api/patient/dosage-calendar?months=1", token, nil), fiber.StatusOK))
	if calendar.DateRange != (dateRangeView{Start: "03-06-2024", End: "12-06-2024"}) {
		t.Fatalf("unexpected range: %+v", calendar.DateRange)
	}
	if calendar.TherapyStart != "03-06-2024" {
		t.Fatalf("unexpected therapy start %q", calendar.TherapyStart)
	}

	expected := []calendarEntryView{
		{Date: "03-06-2024", Status: "missed", Dosage: 5, DayOfWeek: "monday"},
		{Date: "05-06-2024", Status: "taken", Dosage: 2.5, DayOfWeek: "wednesday"},
		{Date: "07-06-2024", Status: "missed", Dosage: 5, DayOfWeek: "friday"},
		{Date: "10-06-2024", Status: "missed", Dosage: 5, DayOfWeek: "monday"},
		{Date: "12-06-2024", Status: "scheduled", Dosage: 2.5, DayOfWeek: "wednesday"},
	}
	if !reflect.DeepEqual(calendar.Entries, expected) {
		t.Fatalf("unexpected calendar entries:\n got %+v\nwant %+v", calendar.Entries, expected)
	}

	ended := decodeData[calendarData](t, expectStatus(t, env.do(t, http.MethodGet, "/api/patient/dosage-calendar?start_date=07-06-2024", token, nil), fiber.StatusOK))
	if ended.DateRange.End != "07-06-2024" || len(ended.Entries) != 3 {
		t.Fatalf("expected window ending 07-06-2024 with 3 entries, got %+v", ended)
	}

	expectStatus(t, env.do(t, http.MethodGet, "/api/patient/dosage-calendar?start_date=99-99-2024", token, nil), fiber.StatusBadRequest)
}

func TestPatientWithoutTherapyGetsConfigurationError(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)

	if _, err := env.handler.doctorService.CreatePatient(env.doctorID, servicesPatientInput("OP-300")); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	token := env.login(t, "OP-300", testPatientPassword)

	for _, path := range []string{"/api/patient/missed-doses", "/api/patient/dosage-calendar"} {
		body := expectStatus(t, env.do(t, http.MethodGet, path, token, nil), fiber.StatusBadRequest)
		if body.Error != "therapy start date or dosage schedule is missing" {
			t.Fatalf("%s: unexpected error %q", path, body.Error)
		}
	}
}
