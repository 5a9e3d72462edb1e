package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/publicpulse/publicpulse-api/internal/repository"
	"github.com/publicpulse/publicpulse-api/internal/service"
	"github.com/publicpulse/publicpulse-api/internal/utils"
)

// ReportLogHandler exposes the admin read surface over the issue audit trail.
type ReportLogHandler struct {
	service service.ReportLogService
	logger  zerolog.Logger
}

// NewReportLogHandler constructs the handler.
func NewReportLogHandler(service service.ReportLogService, logger zerolog.Logger) *ReportLogHandler {
	return &ReportLogHandler{
		service: service,
		logger:  logger.With().Str("component", "report_log_handler").Logger(),
	}
}

// RegisterAdmin attaches the session-gated route.
func (h *ReportLogHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/logs", h.list)
}

func (h *ReportLogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	filter := repository.ReportLogFilter{Page: page, PageSize: pageSize}
	if raw := strings.TrimSpace(c.Query("issue_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid issue_id")
		}
		issueID := uint(parsed)
		filter.IssueID = &issueID
	}

	entries, _, err := h.service.List(c.Context(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list report logs")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(entries)
}
