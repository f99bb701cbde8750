package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/vitalink/internal/db"
	"github.com/terraincognita07/vitalink/internal/models"
	"github.com/terraincognita07/vitalink/internal/services"
	"github.com/terraincognita07/vitalink/internal/storage"
)

type Handler struct {
	secretKey    []byte
	tokenTTL     time.Duration
	location     *time.Location
	logger       zerolog.Logger
	files        storage.Store
	loginLimiter *loginRateLimiter
	failedLogins *accountLockout
	now          func() time.Time

	repositories   *db.Repositories
	authService    *services.AuthService
	setupService   *services.SetupService
	doseService    *services.DoseService
	patientService *services.PatientService
	doctorService  *services.DoctorService
	adminService   *services.AdminService
}

// Options carries everything NewHandler needs besides the database.
type Options struct {
	SecretKey  string
	TokenTTL   time.Duration
	Location   *time.Location
	Logger     zerolog.Logger
	Files      storage.Store
	LoginRate  float64
	LoginBurst int64
	Now        func() time.Time
}

type authClaims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type loginInput struct {
	LoginID  string `json:"login_id" form:"login_id"`
	Password string `json:"password" form:"password"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type takeDosageInput struct {
	Date string `json:"date"`
}

type reassignInput struct {
	NewDoctorID string `json:"new_doctor_id"`
}

type dosageInput struct {
	Prescription *models.DosageSchedule `json:"prescription"`
}

type nextReviewInput struct {
	Date string `json:"date"`
}

type instructionsInput struct {
	Instructions []string `json:"instructions"`
}

type calendarEntryView struct {
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	Dosage    float64 `json:"dosage"`
	DayOfWeek string  `json:"day_of_week"`
}

type dateRangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const (
	defaultAuthTokenTTL = 24 * time.Hour

	failedLoginLimit  = 5
	failedLoginWindow = 15 * time.Minute
)
