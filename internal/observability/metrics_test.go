package observability_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/observability"
)

func TestMetricsHandlerExposesAppraisalCollectors(t *testing.T) {
	observability.RegisterMetrics()
	observability.RegisterMetrics()

	observability.AppraisalTransitions().WithLabelValues("approved", "teamlead").Inc()
	observability.AppraisalUpdates().WithLabelValues("employee", "success").Inc()
	observability.NotificationsDispatched().WithLabelValues("appraisal_assigned", "delivered").Inc()

	app := fiber.New()
	app.Get("/metrics", observability.MetricsHandler())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `appraisal_transitions_total{action="approved",level="teamlead"}`)
	require.Contains(t, string(body), "appraisal_updates_total")
	require.Contains(t, string(body), "notifications_dispatched_total")
}
