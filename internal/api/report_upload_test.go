package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/vitalink/internal/models"
)

var pdfFixture = []byte("%PDF-1.4\n1 0 obj <<>> endobj\ntrailer <<>>\n%%EOF\n")

func multipartRequest(t *testing.T, path string, token string, fields map[string]string, contentType string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if content != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="upload"`, uploadFieldName))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, path, body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Authorization", "Bearer "+token)
	return request
}

func TestPatientSubmitsReportWithScanAndDoctorReviewsIt(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	patientToken := env.login(t, testPatientLogin, testPatientPassword)

	request := multipartRequest(t, "/api/patient/reports", patientToken, map[string]string{
		"inr_value": "4.2",
		"test_date": "11-06-2024",
		"notes":     "felt dizzy",
	}, "application/pdf", pdfFixture)
	submitted := decodeData[struct {
		Report models.INRReport `json:"report"`
	}](t, expectStatus(t, env.send(t, request), fiber.StatusCreated))
	if !submitted.Report.IsCritical {
		t.Fatal("expected INR above target range to be critical")
	}
	if submitted.Report.FileKey == "" {
		t.Fatal("expected stored file key")
	}

	file := env.do(t, http.MethodGet, "/api/files/"+submitted.Report.FileKey, patientToken, nil)
	if file.StatusCode != fiber.StatusOK {
		t.Fatalf("expected file 200, got %d", file.StatusCode)
	}
	if got := file.Header.Get(fiber.HeaderContentType); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", got)
	}
	content, err := io.ReadAll(file.Body)
	if err != nil {
		t.Fatalf("read file body: %v", err)
	}
	if !bytes.Equal(content, pdfFixture) {
		t.Fatalf("unexpected file content %q", content)
	}

	doctorToken := env.login(t, testDoctorLogin, testDoctorPassword)
	reportPath := fmt.Sprintf("/api/doctors/patients/OP-100/reports/%d", submitted.Report.ID)
	expectStatus(t, env.do(t, http.MethodGet, reportPath, doctorToken, nil), fiber.StatusOK)

	reviewed := decodeData[struct {
		Report models.INRReport `json:"report"`
	}](t, expectStatus(t, env.do(t, http.MethodPut, reportPath, doctorToken, map[string]any{
		"is_critical": false,
		"notes":       "lab error, repeat test",
	}), fiber.StatusOK))
	if reviewed.Report.IsCritical || reviewed.Report.Notes != "lab error, repeat test" {
		t.Fatalf("unexpected reviewed report: %+v", reviewed.Report)
	}

	expectStatus(t, env.do(t, http.MethodGet, "/api/doctors/patients/OP-100/reports/999", doctorToken, nil), fiber.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodGet, "/api/doctors/patients/OP-100/reports/abc", doctorToken, nil), fiber.StatusBadRequest)
}

func TestPatientSubmitsJSONReport(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testPatientLogin, testPatientPassword)

	expectStatus(t, env.do(t, http.MethodPost, "/api/patient/reports", token, map[string]any{
		"inr_value": 2.5,
		"test_date": "2024-06-11",
	}), fiber.StatusCreated)

	tests := []map[string]any{
		{"inr_value": "high", "test_date": "11-06-2024"},
		{"inr_value": -1, "test_date": "11-06-2024"},
		{"inr_value": 2.5, "test_date": "31-02-2024"},
	}
	for _, payload := range tests {
		expectStatus(t, env.do(t, http.MethodPost, "/api/patient/reports", token, payload), fiber.StatusBadRequest)
	}

	reports := decodeData[struct {
		Report struct {
			INRHistory []models.INRReport `json:"inr_history"`
		} `json:"report"`
	}](t, expectStatus(t, env.do(t, http.MethodGet, "/api/patient/reports", token, nil), fiber.StatusOK))
	if len(reports.Report.INRHistory) != 1 || reports.Report.INRHistory[0].IsCritical {
		t.Fatalf("unexpected history: %+v", reports.Report.INRHistory)
	}
}

func TestUploadRejectsUnsupportedContentType(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testPatientLogin, testPatientPassword)

	request := multipartRequest(t, "/api/patient/reports", token, map[string]string{
		"inr_value": "2.4",
		"test_date": "11-06-2024",
	}, "text/plain", []byte("not a report"))
	expectStatus(t, env.send(t, request), fiber.StatusBadRequest)
}

func TestProfilePictureUpload(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testDoctorLogin, testDoctorPassword)

	missing := expectStatus(t, env.send(t, multipartRequest(t, "/api/doctors/profile-pic", token, nil, "", nil)), fiber.StatusBadRequest)
	if missing.Error != "Image is required for setting up profile picture" {
		t.Fatalf("unexpected error %q", missing.Error)
	}

	pdf := multipartRequest(t, "/api/doctors/profile-pic", token, nil, "application/pdf", pdfFixture)
	expectStatus(t, env.send(t, pdf), fiber.StatusBadRequest)

	png := multipartRequest(t, "/api/doctors/profile-pic", token, nil, "image/png", []byte("\x89PNG\r\n\x1a\n"))
	expectStatus(t, env.send(t, png), fiber.StatusOK)

	overview := decodeData[struct {
		Doctor models.DoctorRecord `json:"doctor"`
	}](t, expectStatus(t, env.do(t, http.MethodGet, "/api/doctors/profile", token, nil), fiber.StatusOK))
	if overview.Doctor.ProfilePicture == "" {
		t.Fatal("expected stored profile picture key")
	}
}

func TestServeFileUnknownKey(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testPatientLogin, testPatientPassword)

	for _, key := range []string{"inr-reports/00000000-0000-0000-0000-000000000000.pdf", "../secrets.txt", "inr-reports/..%2F..%2Fetc"} {
		expectStatus(t, env.do(t, http.MethodGet, "/api/files/"+key, token, nil), fiber.StatusNotFound)
	}
}
