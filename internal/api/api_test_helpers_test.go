package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/vitalink/internal/db"
	"github.com/terraincognita07/vitalink/internal/models"
	"github.com/terraincognita07/vitalink/internal/services"
	"github.com/terraincognita07/vitalink/internal/storage"
)

const (
	testSecretKey       = "0123456789abcdef0123456789abcdef"
	testAdminLogin      = "admin"
	testAdminPassword   = "Admin#Pass1"
	testDoctorLogin     = "dr.rao"
	testDoctorPassword  = "Doctor#Pass1"
	testPatientLogin    = "OP-100"
	testPatientPassword = "Patient#Pass1"
)

// testNow is a Wednesday; the seeded therapy started the Monday before last.
var testNow = time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	app     *fiber.App
	handler *Handler

	doctorID  uint
	patientID uint
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Success    bool            `json:"success"`
	Error      string          `json:"error"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "vitalink-test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	files, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"), storage.DefaultMaxFileSize)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	handler, err := NewHandler(database, Options{
		SecretKey:  testSecretKey,
		Location:   time.UTC,
		Logger:     zerolog.Nop(),
		Files:      files,
		LoginRate:  100,
		LoginBurst: 100,
		Now:        func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	return &testEnv{
		app:     NewApp(handler, AppOptions{Logger: zerolog.Nop(), MaxUploadBytes: storage.DefaultMaxFileSize}),
		handler: handler,
	}
}

// seedClinic creates an admin, one doctor and one patient on a
// Monday/Wednesday/Friday prescription starting 03-06-2024.
func (env *testEnv) seedClinic(t *testing.T) {
	t.Helper()

	if _, err := env.handler.setupService.CreateAdmin(testAdminLogin, testAdminPassword); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	doctor, err := env.handler.adminService.CreateDoctor(services.CreateDoctorInput{
		LoginID:    testDoctorLogin,
		Password:   testDoctorPassword,
		Name:       "Dr. Rao",
		Department: "Cardiology",
	})
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	env.doctorID = doctor.UserID

	patient, err := env.handler.doctorService.CreatePatient(env.doctorID, services.CreatePatientInput{
		OPNum:            testPatientLogin,
		Password:         testPatientPassword,
		Name:             "Anita",
		Age:              54,
		Gender:           "Female",
		ContactNo:        "9876543210",
		TherapyStartDate: "03-06-2024",
		Prescription: &models.DosageSchedule{
			Monday:    5,
			Wednesday: 2.5,
			Friday:    5,
		},
	})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	env.patientID = patient.UserID
}

func (env *testEnv) login(t *testing.T, loginID string, password string) string {
	t.Helper()

	response := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"login_id": loginID,
		"password": password,
	})
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", loginID, response.StatusCode)
	}
	body := decodeEnvelope(t, response)
	data := struct {
		Token string `json:"token"`
	}{}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.Token == "" {
		t.Fatal("expected login token")
	}
	return data.Token
}

func (env *testEnv) do(t *testing.T, method string, path string, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return env.send(t, request)
}

func (env *testEnv) send(t *testing.T, request *http.Request) *http.Response {
	t.Helper()

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", request.Method, request.URL.Path, err)
	}
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

func decodeEnvelope(t *testing.T, response *http.Response) envelope {
	t.Helper()

	body := envelope{}
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func expectStatus(t *testing.T, response *http.Response, expected int) envelope {
	t.Helper()

	body := decodeEnvelope(t, response)
	if response.StatusCode != expected {
		t.Fatalf("expected status %d, got %d (error=%q message=%q)", expected, response.StatusCode, body.Error, body.Message)
	}
	return body
}
