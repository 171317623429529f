package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/service"
	"github.com/noah-isme/hris-go-api/internal/utils"
)

// SeedTokenHeader carries the shared secret that unlocks directory seeding.
const SeedTokenHeader = "X-Seed-Token"

// SeedHandler loads tenant directories (departments and users) for development environments.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/directory", h.seedDirectory)
}

func (h *SeedHandler) seedDirectory(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Get(SeedTokenHeader))
	if token == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "seed token missing")
	}

	var directory dto.DirectorySeedRequest
	if err := c.BodyParser(&directory); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	seeded, err := h.service.SeedDirectory(requestContext(c), token, directory)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "invalid token")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Uint("company_id", directory.CompanyID).Msg("directory seed failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "seed operation failed")
	}

	requestLogger(h.logger, c).Info().
		Uint("company_id", directory.CompanyID).
		Int64("departments", seeded.Departments).
		Int64("users", seeded.Users).
		Msg("directory seeded")
	return utils.SendSuccess(c, "directory seeded", seeded)
}
