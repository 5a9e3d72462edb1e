package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/publicpulse/publicpulse-api/internal/dto"
	"github.com/publicpulse/publicpulse-api/internal/middleware"
	"github.com/publicpulse/publicpulse-api/internal/service"
	"github.com/publicpulse/publicpulse-api/internal/utils"
)

// AdminHandler exposes admin account and session endpoints. Registration is
// deliberately open, matching the published contract.
type AdminHandler struct {
	service       service.AdminService
	sessionSecret string
	sessionTTL    time.Duration
	logger        zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.AdminService, sessionSecret string, sessionTTL time.Duration, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service:       service,
		sessionSecret: sessionSecret,
		sessionTTL:    sessionTTL,
		logger:        logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the account and session routes. None of these are
// session-gated: create and login bootstrap sessions, logout is idempotent,
// and session is a read-only probe.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/create", h.create)
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
	router.Get("/session", h.session)
}

func (h *AdminHandler) create(c *fiber.Ctx) error {
	var req dto.AdminCredentialsRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "email and password required")
	}

	if err := h.service.Register(c.Context(), req); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "email and password required")
		case errors.Is(err, service.ErrAdminEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create admin")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendOK(c, nil)
}

func (h *AdminHandler) login(c *fiber.Ctx) error {
	var req dto.AdminCredentialsRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "email and password required")
	}

	admin, err := h.service.Authenticate(c.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "email and password required")
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	token, expires, err := middleware.SignSession(h.sessionSecret, h.sessionTTL, admin.ID, admin.Email)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to sign session token")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to establish session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return utils.SendOK(c, nil)
}

func (h *AdminHandler) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return utils.SendOK(c, nil)
}

func (h *AdminHandler) session(c *fiber.Ctx) error {
	session, err := middleware.ParseSession(h.sessionSecret, c.Cookies(middleware.SessionCookie))
	if err != nil {
		return c.JSON(dto.SessionStatusResponse{LoggedIn: false})
	}

	return c.JSON(dto.SessionStatusResponse{LoggedIn: true, Email: session.Email})
}
