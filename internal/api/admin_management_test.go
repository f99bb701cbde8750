package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/models"
	"github.com/terraincognita07/vitalink/internal/services"
)

func TestAdminCreatesAndPagesDoctors(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testAdminLogin, testAdminPassword)

	for index := 0; index < 3; index++ {
		expectStatus(t, env.do(t, http.MethodPost, "/api/admin/doctors", token, map[string]string{
			"login_id":   fmt.Sprintf("dr.extra%d", index),
			"password":   testDoctorPassword,
			"name":       fmt.Sprintf("Dr. Extra %d", index),
			"department": "Neurology",
		}), fiber.StatusCreated)
	}

	duplicate := expectStatus(t, env.do(t, http.MethodPost, "/api/admin/doctors", token, map[string]string{
		"login_id": testDoctorLogin,
		"password": testDoctorPassword,
		"name":     "Dr. Copy",
	}), fiber.StatusConflict)
	if duplicate.Error != services.ErrLoginIDTaken.Error() {
		t.Fatalf("unexpected duplicate error %q", duplicate.Error)
	}

	page := decodeData[services.DoctorPage](t, expectStatus(t, env.do(t, http.MethodGet, "/api/admin/doctors?department=Neurology&page=2&limit=2", token, nil), fiber.StatusOK))
	if page.Pagination.Total != 3 || page.Pagination.Pages != 2 || len(page.Doctors) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Pagination.HasNext || !page.Pagination.HasPrev {
		t.Fatalf("unexpected paging flags: %+v", page.Pagination)
	}

	expectStatus(t, env.do(t, http.MethodGet, "/api/admin/doctors?is_active=maybe", token, nil), fiber.StatusBadRequest)
}

func TestAdminDeactivatesDoctor(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testAdminLogin, testAdminPassword)
	path := fmt.Sprintf("/api/admin/doctors/%d", env.doctorID)

	updated := decodeData[struct {
		Doctor models.DoctorRecord `json:"doctor"`
	}](t, expectStatus(t, env.do(t, http.MethodPut, path, token, map[string]any{
		"is_active":  false,
		"department": "Vascular",
	}), fiber.StatusOK))
	if updated.Doctor.IsActive || updated.Doctor.Department != "Vascular" {
		t.Fatalf("unexpected doctor: %+v", updated.Doctor)
	}

	inactive := decodeData[services.DoctorPage](t, expectStatus(t, env.do(t, http.MethodGet, "/api/admin/doctors?is_active=false", token, nil), fiber.StatusOK))
	if len(inactive.Doctors) != 1 {
		t.Fatalf("expected one inactive doctor, got %d", len(inactive.Doctors))
	}

	expectStatus(t, env.do(t, http.MethodGet, "/api/admin/doctors/9999", token, nil), fiber.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodGet, "/api/admin/doctors/abc", token, nil), fiber.StatusBadRequest)
}

func TestAdminManagesPatients(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testAdminLogin, testAdminPassword)

	expectStatus(t, env.do(t, http.MethodPost, "/api/admin/patients", token, map[string]any{
		"op_num":             "OP-101",
		"assigned_doctor_id": "nobody",
		"name":               "Meera",
		"contact_no":         "9111122222",
	}), fiber.StatusBadRequest)

	created := decodeData[struct {
		Patient models.PatientRecord `json:"patient"`
	}](t, expectStatus(t, env.do(t, http.MethodPost, "/api/admin/patients", token, map[string]any{
		"op_num":             "OP-101",
		"assigned_doctor_id": testDoctorLogin,
		"name":               "Meera",
		"contact_no":         "9111122222",
		"therapy_start_date": "2024-05-01",
		"prescription":       map[string]float64{"monday": 2},
	}), fiber.StatusCreated))
	if created.Patient.AssignedDoctorID != env.doctorID || created.Patient.LoginID != "OP-101" {
		t.Fatalf("unexpected patient: %+v", created.Patient)
	}

	expectStatus(t, env.do(t, http.MethodPut, "/api/admin/patients/OP-101", token, map[string]string{"account_status": "Discharged"}), fiber.StatusOK)

	discharged := decodeData[services.PatientPage](t, expectStatus(t, env.do(t, http.MethodGet, "/api/admin/patients?account_status=Discharged", token, nil), fiber.StatusOK))
	if len(discharged.Patients) != 1 || discharged.Patients[0].LoginID != "OP-101" {
		t.Fatalf("unexpected discharged list: %+v", discharged.Patients)
	}

	searched := decodeData[services.PatientPage](t, expectStatus(t, env.do(t, http.MethodGet, "/api/admin/patients?search=anita", token, nil), fiber.StatusOK))
	if searched.Pagination.Total != 1 {
		t.Fatalf("expected one search match, got %+v", searched.Pagination)
	}

	expectStatus(t, env.do(t, http.MethodGet, "/api/admin/patients/OP-404", token, nil), fiber.StatusNotFound)
}
