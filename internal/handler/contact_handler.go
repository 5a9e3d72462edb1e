package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/publicpulse/publicpulse-api/internal/dto"
	"github.com/publicpulse/publicpulse-api/internal/observability"
	"github.com/publicpulse/publicpulse-api/internal/service"
	"github.com/publicpulse/publicpulse-api/internal/utils"
)

// ContactHandler exposes the public contact endpoint and the admin listing.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler constructs the handler.
func NewContactHandler(service service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register attaches the public route.
func (h *ContactHandler) Register(router fiber.Router) {
	router.Post("/contact", h.submit)
}

// RegisterAdmin attaches the session-gated route.
func (h *ContactHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/contacts", h.list)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "name,email,message required")
	}

	if err := h.service.Submit(c.Context(), req); err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "name,email,message required")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to store contact message")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	observability.ContactSubmissions().Inc()
	return utils.SendOK(c, nil)
}

func (h *ContactHandler) list(c *fiber.Ctx) error {
	contacts, err := h.service.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list contacts")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(contacts)
}
