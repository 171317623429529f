package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/middleware"
)

func TestWithAuthRoleGroups(t *testing.T) {
	cases := []struct {
		name   string
		caller string
		anon   bool
		opts   middleware.AuthOptions
		status int
	}{
		{name: "team lead reviews", caller: "Team Lead", opts: middleware.AuthOptions{Role: middleware.AuthRoleReviewer}, status: fiber.StatusNoContent},
		{name: "hr reviews", caller: "HR", opts: middleware.AuthOptions{Role: middleware.AuthRoleReviewer}, status: fiber.StatusNoContent},
		{name: "employee cannot review", caller: "employee", opts: middleware.AuthOptions{Role: middleware.AuthRoleReviewer}, status: fiber.StatusForbidden},
		{name: "admin acts as hr", caller: "admin", opts: middleware.AuthOptions{Role: middleware.AuthRoleHR}, status: fiber.StatusNoContent},
		{name: "team lead is not hr", caller: "teamlead", opts: middleware.AuthOptions{Role: middleware.AuthRoleHR}, status: fiber.StatusForbidden},
		{name: "plain role match", caller: "staff", opts: middleware.AuthOptions{Role: "employee"}, status: fiber.StatusNoContent},
		{name: "role implies user", anon: true, opts: middleware.AuthOptions{Role: middleware.AuthRoleHR}, status: fiber.StatusUnauthorized},
		{name: "any with user required", anon: true, opts: middleware.AuthOptions{Role: middleware.AuthRoleAny, RequireUser: true}, status: fiber.StatusUnauthorized},
		{name: "anonymous opt in", anon: true, opts: middleware.AuthOptions{Role: middleware.AuthRoleAny}, status: fiber.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			if !tc.anon {
				app.Use(func(c *fiber.Ctx) error {
					c.Locals("user_id", uint(10))
					c.Locals("user_role", tc.caller)
					return c.Next()
				})
			}
			app.Get("/", middleware.WithAuth(func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusNoContent)
			}, tc.opts))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func decodeJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
