package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/payroll"
	"github.com/noah-isme/hris-go-api/internal/utils"
)

// PayrollHandler exposes payroll calculators.
type PayrollHandler struct {
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPayrollHandler constructs the handler.
func NewPayrollHandler(validate *validator.Validate, logger zerolog.Logger) *PayrollHandler {
	return &PayrollHandler{
		validator: validate,
		logger:    logger.With().Str("component", "payroll_handler").Logger(),
	}
}

// Register binds payroll routes.
func (h *PayrollHandler) Register(router fiber.Router) {
	router.Post("/tax-preview", h.taxPreview)
}

func (h *PayrollHandler) taxPreview(c *fiber.Ctx) error {
	var payload dto.TaxPreviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	breakdown, err := payroll.ComputeProgressiveTax(payload.BasicSalary, payload.TotalAllowances)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to compute tax")
	}

	return utils.SendSuccess(c, "tax computed", breakdown)
}
