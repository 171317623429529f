package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/utils"
)

// Role groups understood by WithAuth in addition to plain role names.
const (
	AuthRoleAny      = "any"
	AuthRoleReviewer = "reviewer"
	AuthRoleHR       = "hr"
)

// authGroups expands a role group into the concrete roles it admits. Admins act with HR privileges
// on people data.
var authGroups = map[string]roleSet{
	AuthRoleReviewer: newRoleSet(models.RoleTeamLead, models.RoleHR),
	AuthRoleHR:       newRoleSet(models.RoleHR, models.RoleAdmin),
}

// AuthOptions configures WithAuth. Any role other than AuthRoleAny implies RequireUser.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth guards a single handler. It answers 401 when a user is required but absent and 403 when
// the caller's role falls outside opts.Role.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	group := string(models.ParseRole(opts.Role))
	var allowed roleSet
	if group != "" && group != AuthRoleAny {
		var ok bool
		if allowed, ok = authGroups[group]; !ok {
			allowed = newRoleSet(models.Role(group))
		}
	}
	requireUser := opts.RequireUser || allowed != nil

	return func(c *fiber.Ctx) error {
		if requireUser && c.Locals("user_id") == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if allowed != nil && !allowed.allows(callerRole(c)) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return handler(c)
	}
}
