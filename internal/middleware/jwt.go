package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/utils"
)

var errInvalidIdentifier = errors.New("invalid identifier claim")

// numericID accepts identifiers issued either as JSON numbers or decimal strings.
type numericID uint

func (id *numericID) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if raw == "" || raw == "null" {
		*id = 0
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value != float64(uint64(value)) {
		return errInvalidIdentifier
	}
	*id = numericID(value)
	return nil
}

// roleClaim accepts a single role string or a list of roles. From a list the first known role wins.
type roleClaim string

func (r *roleClaim) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = roleClaim(models.ParseRole(single))
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return nil
	}
	for _, candidate := range many {
		switch role := models.ParseRole(candidate); role {
		case models.RoleEmployee, models.RoleTeamLead, models.RoleHR, models.RoleAdmin:
			*r = roleClaim(role)
			return nil
		}
	}
	return nil
}

// accessClaims is the token payload issued by the identity service.
type accessClaims struct {
	jwt.RegisteredClaims
	UserID    numericID `json:"user_id"`
	CompanyID numericID `json:"company_id"`
	TenantID  numericID `json:"tenant_id"`
	Role      roleClaim `json:"role"`
	Roles     roleClaim `json:"roles"`
}

func (c accessClaims) subject() uint {
	if sub, err := strconv.ParseUint(strings.TrimSpace(c.Subject), 10, 64); err == nil && sub > 0 {
		return uint(sub)
	}
	return uint(c.UserID)
}

func (c accessClaims) company() uint {
	if c.CompanyID > 0 {
		return uint(c.CompanyID)
	}
	return uint(c.TenantID)
}

func (c accessClaims) role() string {
	if c.Role != "" {
		return string(c.Role)
	}
	return string(c.Roles)
}

// JWTProtected authenticates HMAC signed bearer tokens and exposes the caller's user id, company and
// role as fiber locals. Tokens without both a subject and a company are rejected.
func JWTProtected(secret string) fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		var claims accessClaims
		parsed, err := parser.ParseWithClaims(token, &claims, keyFunc)
		if err != nil || !parsed.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		userID, companyID := claims.subject(), claims.company()
		if userID == 0 || companyID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals("user_id", userID)
		c.Locals("company_id", companyID)
		if role := claims.role(); role != "" {
			c.Locals("user_role", role)
		}

		return c.Next()
	}
}
