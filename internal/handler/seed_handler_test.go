package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/handler"
	"github.com/noah-isme/hris-go-api/internal/service"
)

type stubSeeder struct {
	err    error
	calls  int
	token  string
	seeded dto.DirectorySeedRequest
	result dto.DirectorySeedResponse
}

func (s *stubSeeder) SeedDirectory(_ context.Context, token string, req dto.DirectorySeedRequest) (dto.DirectorySeedResponse, error) {
	s.calls++
	s.token = token
	s.seeded = req
	return s.result, s.err
}

func seedApp(svc service.SeedService) *fiber.App {
	app := fiber.New()
	handler.NewSeedHandler(svc, testLogger()).Register(app.Group("/api/v1/seed"))
	return app
}

func seedRequest(t *testing.T, token string, body dto.DirectorySeedRequest) *http.Request {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/api/v1/seed/directory", body)
	if token != "" {
		req.Header.Set(handler.SeedTokenHeader, token)
	}
	return req
}

func TestSeedHandlerLoadsDirectory(t *testing.T) {
	svc := &stubSeeder{result: dto.DirectorySeedResponse{Departments: 1, Users: 2}}
	lead := uint(20)

	resp, err := seedApp(svc).Test(seedRequest(t, " secret ", dto.DirectorySeedRequest{
		CompanyID:   3,
		Departments: []dto.SeedDepartment{{ID: 5, Name: "Finance", TeamLeadID: &lead}},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.DirectorySeedResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, int64(1), body.Data.Departments)
	require.Equal(t, int64(2), body.Data.Users)
	require.Equal(t, "secret", svc.token)
	require.Equal(t, uint(3), svc.seeded.CompanyID)
	require.Equal(t, &lead, svc.seeded.Departments[0].TeamLeadID)
}

func TestSeedHandlerRequiresToken(t *testing.T) {
	svc := &stubSeeder{}

	resp, err := seedApp(svc).Test(seedRequest(t, "", dto.DirectorySeedRequest{CompanyID: 3}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Zero(t, svc.calls)
}

func TestSeedHandlerMapsServiceErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{err: service.ErrSeedDisabled, want: fiber.StatusForbidden},
		{err: service.ErrSeedUnauthorized, want: fiber.StatusForbidden},
		{err: fmt.Errorf("%w: role %q is not recognised", appraisal.ErrValidation, "intern"), want: fiber.StatusBadRequest},
		{err: errors.New("directory table locked"), want: fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		resp, err := seedApp(&stubSeeder{err: tc.err}).Test(seedRequest(t, "secret", dto.DirectorySeedRequest{CompanyID: 3}))
		require.NoError(t, err)
		require.Equal(t, tc.want, resp.StatusCode, tc.err.Error())

		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		decodeResponse(t, resp, &body)
		require.False(t, body.Success)
		require.NotEmpty(t, body.Message)
	}
}
