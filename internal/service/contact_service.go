package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/publicpulse/publicpulse-api/internal/dto"
	"github.com/publicpulse/publicpulse-api/internal/models"
	"github.com/publicpulse/publicpulse-api/internal/repository"
)

// ContactService exposes the contact message workflow.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) error
	List(ctx context.Context) ([]dto.ContactResponse, error)
}

type contactService struct {
	repo      repository.ContactRepository
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewContactService constructs the contact service.
func NewContactService(repo repository.ContactRepository, validate *validator.Validate, logger zerolog.Logger) ContactService {
	return &contactService{
		repo:      repo,
		validator: validate,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "contact_service").Logger(),
		tracer:    otel.Tracer("github.com/publicpulse/publicpulse-api/internal/service/contact"),
	}
}

func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) error {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return err
	}

	contact := models.Contact{
		Name:    strings.TrimSpace(s.policy.Sanitize(req.Name)),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(s.policy.Sanitize(req.Message)),
	}

	if err := s.repo.Create(ctx, &contact); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return err
	}

	s.logger.Info().Uint("contact_id", contact.ID).Str("email", maskEmail(contact.Email)).Msg("contact message received")
	span.SetStatus(codes.Ok, "created")

	return nil
}

func (s *contactService) List(ctx context.Context) ([]dto.ContactResponse, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewContactResponses(contacts), nil
}

// maskEmail keeps contact addresses out of the logs while leaving enough to
// correlate repeated senders.
func maskEmail(email string) string {
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***"
	}
	local := parts[0]
	switch {
	case local == "":
		// Email presence is the only contract; "@example.com" is accepted.
		local = "***"
	case len(local) <= 2:
		local = local[:1] + "***"
	default:
		local = local[:1] + "***" + local[len(local)-1:]
	}
	return local + "@" + parts[1]
}
