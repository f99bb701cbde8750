package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Middleware records request count, latency and concurrency. Paths are
// labelled with the matched route pattern so ids do not explode cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		HTTPRequestInFlight.Inc()
		defer HTTPRequestInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := routePattern(c)
		HTTPRequestTotals.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func routePattern(c *fiber.Ctx) string {
	route := c.Route()
	if route == nil || route.Path == "" || (route.Path == "/" && c.Path() != "/") {
		return "unmatched"
	}
	return route.Path
}
