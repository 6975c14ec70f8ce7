package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Contadores(t *testing.T) {
	r := NewRecorder(false)

	r.RedirectDecided("navigate")
	r.RedirectDecided("navigate")
	r.RedirectDecided("disabled")
	r.AssociationRepaired("created", 3)
	r.AssociationRepaired("collapsed", 0)
	r.FunctionCalled("ai-search", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.redirects.WithLabelValues("navigate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.redirects.WithLabelValues("disabled")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.repairs.WithLabelValues("created")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.repairs), "un valor cero no crea serie")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.functions.WithLabelValues("ai-search", "ok")))
}

func TestRecorder_MiddlewareYHandler(t *testing.T) {
	r := NewRecorder(false)
	app := fiber.New()
	app.Use(r.Middleware())
	app.Get("/api/leads/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/api/leads/123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("GET", "/api/leads/:id", "204")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), "leadportal_http_requests_total"))
}
