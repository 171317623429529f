package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDReusesWellFormedHeader(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/ping", func(c *fiber.Ctx) error {
		require.Equal(t, "req-42", CorrelationIDFromContext(c.UserContext()))
		return c.SendString(GetCorrelationID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(CorrelationHeader, "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "req-42", resp.Header.Get(CorrelationHeader))
}

func TestCorrelationIDReplacesUnsafeHeader(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(CorrelationHeader, "bad id\twith spaces")
	resp, err := app.Test(req)
	require.NoError(t, err)

	id := resp.Header.Get(CorrelationHeader)
	require.NotEmpty(t, id)
	require.NotContains(t, id, " ")

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(CorrelationHeader, strings.Repeat("a", maxCorrelationIDLength+1))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Len(t, resp.Header.Get(CorrelationHeader), 36)
}

func TestRateLimitSeparatesTenants(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		if c.Get("X-Company") == "2" {
			c.Locals("company_id", uint(2))
		} else {
			c.Locals("company_id", uint(1))
		}
		return c.Next()
	})
	app.Use(RateLimit("appraisal-write", 1, time.Minute))
	app.Post("/appraisals", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	send := func(company string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/appraisals", nil)
		req.Header.Set("X-Company", company)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	require.Equal(t, fiber.StatusCreated, send("1").StatusCode)

	limited := send("1")
	require.Equal(t, fiber.StatusTooManyRequests, limited.StatusCode)
	require.Equal(t, "60", limited.Header.Get(fiber.HeaderRetryAfter))

	require.Equal(t, fiber.StatusCreated, send("2").StatusCode)
}
