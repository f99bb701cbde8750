package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/vitalink/internal/services"
)

func TestSetupCreatesFirstAdminOnlyOnce(t *testing.T) {
	env := newTestEnv(t)

	status := expectStatus(t, env.do(t, http.MethodGet, "/api/auth/setup-status", "", nil), fiber.StatusOK)
	if string(status.Data) != `{"needs_setup":true}` {
		t.Fatalf("expected setup to be required, got %s", status.Data)
	}

	credentials := map[string]string{"login_id": "root", "password": testAdminPassword}
	expectStatus(t, env.do(t, http.MethodPost, "/api/auth/setup", "", credentials), fiber.StatusCreated)

	second := expectStatus(t, env.do(t, http.MethodPost, "/api/auth/setup", "", map[string]string{
		"login_id": "other",
		"password": testAdminPassword,
	}), fiber.StatusConflict)
	if second.Error != "setup already completed" {
		t.Fatalf("unexpected error %q", second.Error)
	}

	token := env.login(t, "root", testAdminPassword)
	expectStatus(t, env.do(t, http.MethodGet, "/api/admin/doctors", token, nil), fiber.StatusOK)
}

func TestLoginIssuesTokenWithRoleAndExpiry(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)

	response := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"login_id": testDoctorLogin,
		"password": testDoctorPassword,
	})
	body := expectStatus(t, response, fiber.StatusOK)
	if !body.Success || body.Message != "Login successful" {
		t.Fatalf("unexpected envelope: %+v", body)
	}

	data := struct {
		Token     string    `json:"token"`
		Role      string    `json:"role"`
		ExpiresAt time.Time `json:"expires_at"`
	}{}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.Role != "doctor" {
		t.Fatalf("expected doctor role, got %q", data.Role)
	}
	if !data.ExpiresAt.Equal(testNow.Add(defaultAuthTokenTTL)) {
		t.Fatalf("expected expiry %s, got %s", testNow.Add(defaultAuthTokenTTL), data.ExpiresAt)
	}

	claims := &authClaims{}
	_, err := jwt.ParseWithClaims(data.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecretKey), nil
	}, jwt.WithTimeFunc(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != env.doctorID || claims.Role != "doctor" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	me := expectStatus(t, env.do(t, http.MethodGet, "/api/auth/me", data.Token, nil), fiber.StatusOK)
	user := struct {
		User struct {
			LoginID string `json:"login_id"`
		} `json:"user"`
	}{}
	if err := json.Unmarshal(me.Data, &user); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if user.User.LoginID != testDoctorLogin {
		t.Fatalf("expected %s, got %q", testDoctorLogin, user.User.LoginID)
	}
}

func TestLoginRejectsInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)

	tests := []struct {
		name     string
		loginID  string
		password string
	}{
		{name: "wrong password", loginID: testDoctorLogin, password: "Wrong#Pass1"},
		{name: "unknown login", loginID: "nobody", password: testDoctorPassword},
		{name: "blank password", loginID: testDoctorLogin, password: "  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := expectStatus(t, env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
				"login_id": tc.loginID,
				"password": tc.password,
			}), fiber.StatusUnauthorized)
			if body.Error != "invalid credentials" {
				t.Fatalf("unexpected error %q", body.Error)
			}
		})
	}
}

func TestLoginLocksOutAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)

	for attempt := 0; attempt < failedLoginLimit; attempt++ {
		expectStatus(t, env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"login_id": testDoctorLogin,
			"password": "Wrong#Pass1",
		}), fiber.StatusUnauthorized)
	}

	locked := expectStatus(t, env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"login_id": testDoctorLogin,
		"password": testDoctorPassword,
	}), fiber.StatusTooManyRequests)
	if locked.Error == "" {
		t.Fatal("expected lockout error message")
	}

	// Other accounts from the same client are unaffected.
	env.login(t, testAdminLogin, testAdminPassword)
}

func TestLoginRateLimitPerClient(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	env.handler.loginLimiter = newLoginRateLimiter(0.001, 2)

	for attempt := 0; attempt < 2; attempt++ {
		response := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"login_id": testDoctorLogin,
			"password": testDoctorPassword,
		})
		expectStatus(t, response, fiber.StatusOK)
		if got := response.Header.Get("X-RateLimit-Limit"); got != "2" {
			t.Fatalf("expected X-RateLimit-Limit 2, got %q", got)
		}
	}

	response := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"login_id": testDoctorLogin,
		"password": testDoctorPassword,
	})
	expectStatus(t, response, fiber.StatusTooManyRequests)
	if response.Header.Get(fiber.HeaderRetryAfter) == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestInactiveAccountCannotSignIn(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)

	inactive := false
	if _, err := env.handler.adminService.UpdateDoctor(env.doctorID, services.AdminDoctorUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate doctor: %v", err)
	}

	expectStatus(t, env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"login_id": testDoctorLogin,
		"password": testDoctorPassword,
	}), fiber.StatusForbidden)
}

func TestTokenRejectedAfterAccountDeactivated(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testDoctorLogin, testDoctorPassword)

	inactive := false
	if _, err := env.handler.adminService.UpdateDoctor(env.doctorID, services.AdminDoctorUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate doctor: %v", err)
	}

	expectStatus(t, env.do(t, http.MethodGet, "/api/doctors/profile", token, nil), fiber.StatusUnauthorized)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testDoctorLogin, testDoctorPassword)

	env.handler.now = func() time.Time { return testNow.Add(defaultAuthTokenTTL + time.Minute) }
	expectStatus(t, env.do(t, http.MethodGet, "/api/auth/me", token, nil), fiber.StatusUnauthorized)
}

func TestTemporaryPasswordMustBeChangedFirst(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)

	if _, err := env.handler.doctorService.CreatePatient(env.doctorID, services.CreatePatientInput{
		OPNum:     "OP-200",
		Name:      "Ravi",
		ContactNo: "9000011111",
	}); err != nil {
		t.Fatalf("create patient: %v", err)
	}

	token := env.login(t, "OP-200", "9000011111")
	blocked := expectStatus(t, env.do(t, http.MethodGet, "/api/patient/profile", token, nil), fiber.StatusForbidden)
	if blocked.Error != "password change required" {
		t.Fatalf("unexpected error %q", blocked.Error)
	}
	expectStatus(t, env.do(t, http.MethodGet, "/api/auth/me", token, nil), fiber.StatusOK)

	expectStatus(t, env.do(t, http.MethodPost, "/api/auth/change-password", token, map[string]string{
		"current_password": "9000011111",
		"new_password":     "Fresh#Pass1",
		"confirm_password": "Fresh#Pass1",
	}), fiber.StatusOK)

	expectStatus(t, env.do(t, http.MethodGet, "/api/patient/profile", token, nil), fiber.StatusOK)
}

func TestChangePasswordValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedClinic(t)
	token := env.login(t, testDoctorLogin, testDoctorPassword)

	tests := []struct {
		name     string
		payload  map[string]string
		expected string
	}{
		{
			name:     "mismatch",
			payload:  map[string]string{"current_password": testDoctorPassword, "new_password": "Fresh#Pass1", "confirm_password": "Fresh#Pass2"},
			expected: "password mismatch",
		},
		{
			name:     "wrong current",
			payload:  map[string]string{"current_password": "Nope#Pass1", "new_password": "Fresh#Pass1"},
			expected: services.ErrInvalidCurrentPassword.Error(),
		},
		{
			name:     "weak",
			payload:  map[string]string{"current_password": testDoctorPassword, "new_password": "weak"},
			expected: services.ErrWeakPassword.Error(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := expectStatus(t, env.do(t, http.MethodPost, "/api/auth/change-password", token, tc.payload), fiber.StatusBadRequest)
			if body.Error != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, body.Error)
			}
		})
	}
}
