package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gradelens/gradelens-api/internal/dto"
	"github.com/gradelens/gradelens-api/internal/service"
	"github.com/gradelens/gradelens-api/internal/utils"
)

// PlagiarismHandler exposes the originality check endpoints.
type PlagiarismHandler struct {
	service service.PlagiarismService
	logger  zerolog.Logger
}

// NewPlagiarismHandler builds a plagiarism handler instance.
func NewPlagiarismHandler(service service.PlagiarismService, logger zerolog.Logger) *PlagiarismHandler {
	return &PlagiarismHandler{
		service: service,
		logger:  logger.With().Str("component", "plagiarism_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PlagiarismHandler) Register(router fiber.Router) {
	router.Post("/submissions/:id", h.checkSubmission)
	router.Post("/text", h.checkText)
	router.Get("/submissions/:id", h.getReport)
}

func (h *PlagiarismHandler) checkSubmission(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.service.CheckSubmission(c.Context(), id, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plagiarism check completed", report)
}

func (h *PlagiarismHandler) checkText(c *fiber.Ctx) error {
	var payload dto.PlagiarismCheckRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.service.CheckText(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plagiarism check completed", report)
}

func (h *PlagiarismHandler) getReport(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.service.GetReport(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "plagiarism report retrieved", report)
}

func (h *PlagiarismHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrReportNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "plagiarism report not found")
	case errors.Is(err, service.ErrContentEmpty):
		return utils.SendError(c, fiber.StatusBadRequest, "essay content is required")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
