// Package logging builds the process logger and the fiber request logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a zerolog logger at level. Development output is the
// human-readable console format; every other environment logs JSON.
// The returned logger also becomes the package-global zerolog logger.
func New(level string, env string) (zerolog.Logger, error) {
	return NewWithWriter(level, env, os.Stdout)
}

func NewWithWriter(level string, env string, out io.Writer) (zerolog.Logger, error) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
	}
	if parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	writer := out
	if strings.EqualFold(strings.TrimSpace(env), "development") {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(writer).Level(parsed).With().Timestamp().Str("service", "vitalink").Logger()
	log.Logger = logger
	return logger, nil
}

// RequestLogger logs one line per request after the handler chain returns.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		evt := logger.Info()
		switch {
		case err != nil && status >= fiber.StatusInternalServerError:
			evt = logger.Error().Err(err)
		case status >= fiber.StatusInternalServerError:
			evt = logger.Error()
		case status >= fiber.StatusBadRequest:
			evt = logger.Warn()
		}

		rid, _ := c.Locals("requestid").(string)
		evt.
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("remote_ip", c.IP()).
			Msg("request")

		return err
	}
}
