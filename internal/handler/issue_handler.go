package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/publicpulse/publicpulse-api/internal/dto"
	"github.com/publicpulse/publicpulse-api/internal/observability"
	"github.com/publicpulse/publicpulse-api/internal/service"
	"github.com/publicpulse/publicpulse-api/internal/utils"
)

// IssueHandler exposes the public issue endpoints and the admin triage
// endpoints.
type IssueHandler struct {
	service service.IssueService
	logger  zerolog.Logger
}

// NewIssueHandler constructs the handler.
func NewIssueHandler(service service.IssueService, logger zerolog.Logger) *IssueHandler {
	return &IssueHandler{
		service: service,
		logger:  logger.With().Str("component", "issue_handler").Logger(),
	}
}

// Register attaches the public routes.
func (h *IssueHandler) Register(router fiber.Router) {
	router.Post("/report", h.submitReport)
	router.Post("/vote", h.vote)
	router.Get("/issues", h.listPublic)
}

// RegisterAdmin attaches the session-gated routes.
func (h *IssueHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/reports", h.listAdmin)
	router.Post("/update_status", h.updateStatus)
}

func (h *IssueHandler) submitReport(c *fiber.Ctx) error {
	var req dto.ReportRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "title and description required")
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		// No file attached; the photo is optional.
		photo = nil
	}

	issueID, err := h.service.SubmitReport(c.Context(), req, photo)
	if err != nil {
		switch {
		case isValidationError(err):
			observability.IssueReports().WithLabelValues("invalid").Inc()
			return utils.SendError(c, fiber.StatusBadRequest, "title and description required")
		case errors.Is(err, service.ErrPhotoTooLarge), errors.Is(err, service.ErrPhotoTypeNotAllowed):
			observability.IssueReports().WithLabelValues("invalid").Inc()
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrIssueTitleTaken):
			observability.IssueReports().WithLabelValues("conflict").Inc()
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			observability.IssueReports().WithLabelValues("error").Inc()
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit report")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	observability.IssueReports().WithLabelValues("created").Inc()
	return utils.SendOK(c, fiber.Map{"issue_id": issueID})
}

func (h *IssueHandler) vote(c *fiber.Ctx) error {
	var req dto.VoteRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "title required")
	}

	action, err := h.service.Vote(c.Context(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "title required")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to record vote")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	observability.IssueVotes().WithLabelValues(action).Inc()
	return utils.SendOK(c, fiber.Map{"action": action})
}

func (h *IssueHandler) listPublic(c *fiber.Ctx) error {
	issues, err := h.service.ListPublic(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list issues")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(issues)
}

func (h *IssueHandler) listAdmin(c *fiber.Ctx) error {
	issues, err := h.service.ListAdmin(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list reports")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(issues)
}

func (h *IssueHandler) updateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "issue_id and status required")
	}

	if err := h.service.UpdateStatus(c.Context(), req); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "issue_id and status required")
		case errors.Is(err, service.ErrIssueNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update status")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendOK(c, nil)
}
