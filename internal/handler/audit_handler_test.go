package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/handler"
	"github.com/noah-isme/hris-go-api/internal/service"
)

type fakeActivityService struct {
	companyID uint
	req       dto.ActivityListRequest
}

func (f *fakeActivityService) Record(context.Context, service.ActivityEntry) (dto.ActivityResponse, error) {
	return dto.ActivityResponse{}, nil
}

func (f *fakeActivityService) List(_ context.Context, companyID uint, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	f.companyID = companyID
	f.req = req
	return dto.ActivityListResponse{
		Items:      []dto.ActivityResponse{{ID: 1, Action: "appraisal.approve", Status: "success"}},
		Pagination: dto.NewPaginationMeta(1, 20, 1),
	}, nil
}

func TestAuditHandlerScopesToCallerTenant(t *testing.T) {
	svc := &fakeActivityService{}
	app := fiber.New()
	handler.NewAuditHandler(svc, testLogger()).Register(app.Group("/api/v1/audit-logs", authenticated(90, 4, "hr")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?action=appraisal.approve&status=failure&entity_id=7", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data       []dto.ActivityResponse `json:"data"`
		Pagination dto.PaginationMeta     `json:"pagination"`
	}
	decodeResponse(t, resp, &payload)
	require.Len(t, payload.Data, 1)
	require.Equal(t, int64(1), payload.Pagination.TotalItems)
	require.Equal(t, uint(4), svc.companyID)
	require.Equal(t, "appraisal.approve", svc.req.Action)
	require.Equal(t, "failure", svc.req.Status)
	require.Equal(t, uint(7), svc.req.EntityID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?actor_id=-3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuditHandlerParsesDateWindow(t *testing.T) {
	svc := &fakeActivityService{}
	app := fiber.New()
	handler.NewAuditHandler(svc, testLogger()).Register(app.Group("/api/v1/audit-logs", authenticated(90, 4, "hr")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?from=2024-06-01&to=2024-06-30", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.req.From)
	require.NotNil(t, svc.req.To)
	require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *svc.req.From)
	require.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), *svc.req.To)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?from=2024-07-01&to=2024-06-01", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?from=yesterday", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
