package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/vitalink/internal/logging"
	"github.com/terraincognita07/vitalink/internal/metrics"
)

// bodyLimitSlack leaves room for multipart framing and form fields around an
// upload of the maximum accepted size.
const bodyLimitSlack = 1 << 20

type AppOptions struct {
	Logger         zerolog.Logger
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// NewApp builds the fiber application with the shared middleware chain and
// every route registered.
func NewApp(handler *Handler, options AppOptions) *fiber.App {
	bodyLimit := fiber.DefaultBodyLimit
	if options.MaxUploadBytes > 0 {
		bodyLimit = int(options.MaxUploadBytes) + bodyLimitSlack
	}

	app := fiber.New(fiber.Config{
		AppName:               "Vitalink",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ReadTimeout:           options.ReadTimeout,
		WriteTimeout:          options.WriteTimeout,
		ErrorHandler:          ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logging.RequestLogger(options.Logger))
	app.Use(metrics.Middleware())

	RegisterRoutes(app, handler)
	return app
}
