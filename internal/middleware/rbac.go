package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/utils"
)

type roleSet map[models.Role]struct{}

func newRoleSet(roles ...models.Role) roleSet {
	set := make(roleSet, len(roles))
	for _, role := range roles {
		if role != "" {
			set[role] = struct{}{}
		}
	}
	return set
}

func (s roleSet) allows(role models.Role) bool {
	_, ok := s[role]
	return ok
}

// callerRole reads the normalised role stored by JWTProtected.
func callerRole(c *fiber.Ctx) models.Role {
	switch v := c.Locals("user_role").(type) {
	case nil:
		return ""
	case string:
		return models.ParseRole(v)
	case models.Role:
		return models.ParseRole(string(v))
	default:
		return models.ParseRole(fmt.Sprint(v))
	}
}

// RequireRole rejects callers whose role is not listed with 403.
func RequireRole(roles ...string) fiber.Handler {
	parsed := make([]models.Role, 0, len(roles))
	for _, role := range roles {
		parsed = append(parsed, models.ParseRole(role))
	}
	allowed := newRoleSet(parsed...)

	return func(c *fiber.Ctx) error {
		if !allowed.allows(callerRole(c)) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
