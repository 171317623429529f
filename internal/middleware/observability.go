package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/observability"
)

const apiPrefix = "/api/v1/"

// Observability records request metrics for the versioned API and emits one structured log line per
// request, tagged with the calling tenant and role once authentication has run.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()
	component := logger.With().Str("component", "http").Logger()

	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), apiPrefix) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()
		code := strconv.Itoa(status)

		observability.HTTPRequests().WithLabelValues(method, route, code).Inc()
		if status >= fiber.StatusBadRequest {
			observability.HTTPErrors().WithLabelValues(method, route, code).Inc()
		}
		// long-lived SSE connections would swamp the latency histogram
		if !strings.HasSuffix(route, "/stream") {
			observability.HTTPLatency().WithLabelValues(method, route).Observe(elapsed.Seconds())
		}

		event := levelFor(component, status).
			Str("correlation_id", GetCorrelationID(c)).
			Str("method", method).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Bool("slow", elapsed > 250*time.Millisecond)
		if companyID, ok := c.Locals("company_id").(uint); ok && companyID != 0 {
			event = event.Uint("company_id", companyID)
		}
		if userID, ok := c.Locals("user_id").(uint); ok && userID != 0 {
			event = event.Uint("user_id", userID)
		}
		if role, ok := c.Locals("user_role").(string); ok && role != "" {
			event = event.Str("role", role)
		}
		event.Msg("request handled")

		return err
	}
}

func levelFor(logger zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= fiber.StatusInternalServerError:
		return logger.Error()
	case status >= fiber.StatusBadRequest:
		return logger.Warn()
	default:
		return logger.Info()
	}
}

func routeTemplate(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" {
		return route.Path
	}
	return c.Path()
}
