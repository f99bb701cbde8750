package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/files/:key", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	before := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues(http.MethodGet, "/api/files/:key", "204"))
	for _, key := range []string{"a", "b"} {
		response, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/files/"+key, nil), -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		response.Body.Close()
	}

	after := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues(http.MethodGet, "/api/files/:key", "204"))
	if after-before != 2 {
		t.Fatalf("expected two requests counted under the route pattern, got %v", after-before)
	}
}

func TestHandlerExposesDoseRecords(t *testing.T) {
	ObserveDoseRecord(DoseResultRecorded)

	app := fiber.New()
	app.Get("/metrics", Handler())

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	if !strings.Contains(string(body), `dose_records_total{result="recorded"}`) {
		t.Fatalf("expected dose_records_total in exposition, got:\n%s", body)
	}
}
