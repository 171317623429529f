package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/appraisal"
	"github.com/noah-isme/hris-go-api/internal/middleware"
	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/payroll"
	"github.com/noah-isme/hris-go-api/internal/service"
	"github.com/noah-isme/hris-go-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// parseQueryTime accepts RFC 3339 timestamps or plain dates. A plain date used as an upper bound
// covers the whole day.
func parseQueryTime(c *fiber.Ctx, key string, upper bool) (*time.Time, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, err
	}
	if upper {
		parsed = parsed.AddDate(0, 0, 1)
	}
	return &parsed, nil
}

func parseIDParam(c *fiber.Ctx, key string) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Params(key)), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(parsed), nil
}

func uintLocal(c *fiber.Ctx, key string) uint {
	switch v := c.Locals(key).(type) {
	case uint:
		return v
	case int:
		if v < 0 {
			return 0
		}
		return uint(v)
	}
	return 0
}

func userIDFromContext(c *fiber.Ctx) uint {
	return uintLocal(c, "user_id")
}

func companyIDFromContext(c *fiber.Ctx) uint {
	return uintLocal(c, "company_id")
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func actorFromContext(c *fiber.Ctx) (service.Actor, bool) {
	actor := service.Actor{
		ID:            userIDFromContext(c),
		Role:          models.ParseRole(userRoleFromContext(c)),
		CompanyID:     companyIDFromContext(c),
		CorrelationID: middleware.GetCorrelationID(c),
	}
	return actor, actor.ID != 0 && actor.CompanyID != 0
}

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors) ||
		errors.Is(err, appraisal.ErrValidation) ||
		errors.Is(err, payroll.ErrNegativeAmount)
}

// sendServiceError maps error kinds onto HTTP statuses. Internal failures are logged and
// answered with fallback only.
func sendServiceError(c *fiber.Ctx, base zerolog.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrEvidenceTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, appraisal.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, appraisal.ErrNotAuthorized):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, appraisal.ErrAlreadyReviewed):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, appraisal.ErrConflict):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, appraisal.ErrNotificationFailed):
		requestLogger(base, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, "notification dispatch failed")
	default:
		requestLogger(base, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
