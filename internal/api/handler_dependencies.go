package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/vitalink/internal/db"
	"github.com/terraincognita07/vitalink/internal/services"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(options.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	if options.Files == nil {
		return nil, errors.New("file store is required")
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.TokenTTL <= 0 {
		options.TokenTTL = defaultAuthTokenTTL
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	handler := &Handler{
		secretKey:    []byte(options.SecretKey),
		tokenTTL:     options.TokenTTL,
		location:     options.Location,
		logger:       options.Logger.With().Str("component", "api").Logger(),
		files:        options.Files,
		loginLimiter: newLoginRateLimiter(options.LoginRate, options.LoginBurst),
		failedLogins: newAccountLockout(failedLoginLimit, failedLoginWindow),
		now:          options.Now,
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	repositories := db.NewRepositories(database)
	handler.repositories = repositories
	handler.authService = services.NewAuthService(repositories.Users)
	handler.setupService = services.NewSetupService(repositories.Users)
	handler.doseService = services.NewDoseService(repositories.Patients, repositories.TakenDoses, handler.location).
		WithClock(handler.now)
	handler.patientService = services.NewPatientService(
		repositories.Patients,
		repositories.Doctors,
		repositories.INRReports,
		repositories.HealthLogs,
		handler.location,
	).WithClock(handler.now)
	handler.doctorService = services.NewDoctorService(
		repositories.Users,
		repositories.Doctors,
		repositories.Patients,
		repositories.INRReports,
		handler.location,
	)
	handler.adminService = services.NewAdminService(
		repositories.Users,
		repositories.Doctors,
		repositories.Patients,
		handler.location,
	)
	return handler
}

// DoseService exposes the adherence service so the digest job shares the
// handler's clock and zone.
func (handler *Handler) DoseService() *services.DoseService {
	return handler.doseService
}
