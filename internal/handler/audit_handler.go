package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/service"
	"github.com/noah-isme/hris-go-api/internal/utils"
)

// AuditHandler exposes the tenant's audit log.
type AuditHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service service.ActivityService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register attaches audit log routes to the router group.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	companyID := companyIDFromContext(c)
	if companyID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil || actorID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor id")
	}
	entityID, err := parseQueryInt(c, "entity_id")
	if err != nil || entityID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid entity id")
	}

	from, err := parseQueryTime(c, "from", false)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid from date")
	}
	to, err := parseQueryTime(c, "to", true)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid to date")
	}
	if from != nil && to != nil && !from.Before(*to) {
		return utils.SendError(c, fiber.StatusBadRequest, "from must be before to")
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    uint(actorID),
		Action:     c.Query("action"),
		Status:     c.Query("status"),
		EntityType: c.Query("entity_type"),
		EntityID:   uint(entityID),
		From:       from,
		To:         to,
	}

	response, err := h.service.List(requestContext(c), companyID, req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list audit logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list audit logs")
	}

	return utils.SendPaginated(c, "audit logs", response.Items, response.Pagination)
}
