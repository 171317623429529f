package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/service"
	"github.com/noah-isme/hris-go-api/internal/utils"
)

// AppraisalHandler exposes the appraisal review workflow.
type AppraisalHandler struct {
	service  service.AppraisalService
	evidence service.EvidenceService
	logger   zerolog.Logger
}

// NewAppraisalHandler constructs the handler.
func NewAppraisalHandler(service service.AppraisalService, evidence service.EvidenceService, logger zerolog.Logger) *AppraisalHandler {
	return &AppraisalHandler{
		service:  service,
		evidence: evidence,
		logger:   logger.With().Str("component", "appraisal_handler").Logger(),
	}
}

// Register binds appraisal routes. Extra handlers run before the bulk create and evidence
// upload routes, typically rate limiters.
func (h *AppraisalHandler) Register(router fiber.Router, writeGuards ...fiber.Handler) {
	router.Post("/", guarded(writeGuards, h.create)...)
	router.Get("/", h.list)
	router.Get("/queue", h.queue)
	router.Get("/summary", h.summary)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Post("/:id/approve", h.approve)
	router.Post("/:id/reject", h.reject)
	router.Post("/:id/objectives/:objectiveId/evidence", guarded(writeGuards, h.attachEvidence)...)
}

func guarded(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	return append(handlers, handler)
}

func (h *AppraisalHandler) create(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.AppraisalCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.CreateBatch(requestContext(c), actor, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to create appraisals")
	}

	if len(result.Created) == 0 && len(result.Failed) > 0 {
		requestLogger(h.logger, c).Error().Int("failed", len(result.Failed)).Msg("bulk appraisal creation failed for every employee")
		return utils.SendErrorWithData(c, fiber.StatusInternalServerError, "failed to create appraisals", result)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "appraisals created", result)
}

func (h *AppraisalHandler) list(c *fiber.Ctx) error {
	return h.listing(c, h.service.ListActivity, "appraisals retrieved")
}

func (h *AppraisalHandler) queue(c *fiber.Ctx) error {
	return h.listing(c, h.service.ListQueue, "appraisal queue retrieved")
}

type listFunc func(ctx context.Context, actor service.Actor, req dto.AppraisalListRequest) (dto.AppraisalListResponse, error)

func (h *AppraisalHandler) listing(c *fiber.Ctx, fetch listFunc, message string) error {
	actor, ok := actorFromContext(c)
	if !ok {
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

	response, err := fetch(requestContext(c), actor, dto.AppraisalListRequest{
		Status:   strings.TrimSpace(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list appraisals")
	}

	return utils.SendPaginated(c, message, response.Items, response.Pagination)
}

func (h *AppraisalHandler) summary(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	response, err := h.service.Summary(requestContext(c), actor, c.Query("status"))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to summarise appraisals")
	}

	return utils.SendSuccess(c, "appraisal summary", response)
}

func (h *AppraisalHandler) get(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid appraisal id")
	}

	response, err := h.service.Get(requestContext(c), actor, id)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load appraisal")
	}

	return utils.SendSuccess(c, "appraisal retrieved", response)
}

func (h *AppraisalHandler) update(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid appraisal id")
	}

	var payload dto.AppraisalUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(requestContext(c), actor, id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to update appraisal")
	}

	return utils.SendSuccess(c, "appraisal updated", response)
}

func (h *AppraisalHandler) approve(c *fiber.Ctx) error {
	return h.decide(c, h.service.Approve, "appraisal approved")
}

func (h *AppraisalHandler) reject(c *fiber.Ctx) error {
	return h.decide(c, h.service.Reject, "appraisal rejected")
}

type decideFunc func(ctx context.Context, actor service.Actor, id uint) (dto.AppraisalResponse, error)

func (h *AppraisalHandler) decide(c *fiber.Ctx, decide decideFunc, message string) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid appraisal id")
	}

	response, err := decide(requestContext(c), actor, id)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to review appraisal")
	}

	return utils.SendSuccess(c, message, response)
}

func (h *AppraisalHandler) attachEvidence(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid appraisal id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	response, err := h.evidence.Attach(requestContext(c), actor, id, c.Params("objectiveId"), file)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to store evidence")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evidence uploaded", response)
}
