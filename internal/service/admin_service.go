package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/publicpulse/publicpulse-api/internal/dto"
	"github.com/publicpulse/publicpulse-api/internal/models"
	"github.com/publicpulse/publicpulse-api/internal/repository"
)

var (
	// ErrAdminEmailTaken indicates a registration reused an existing email.
	ErrAdminEmailTaken = errors.New("admin with this email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AdminService exposes admin account registration and authentication.
type AdminService interface {
	Register(ctx context.Context, req dto.AdminCredentialsRequest) error
	Authenticate(ctx context.Context, req dto.AdminCredentialsRequest) (models.Admin, error)
}

type adminService struct {
	repo      repository.AdminRepository
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewAdminService constructs the admin identity service.
func NewAdminService(repo repository.AdminRepository, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "admin_service").Logger(),
		tracer:    otel.Tracer("github.com/publicpulse/publicpulse-api/internal/service/admin"),
	}
}

func (s *adminService) Register(ctx context.Context, req dto.AdminCredentialsRequest) error {
	ctx, span := s.tracer.Start(ctx, "admin.register")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash failed")
		return err
	}

	admin := models.Admin{
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, &admin); err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetStatus(codes.Error, "duplicate email")
			return ErrAdminEmailTaken
		}
		span.SetStatus(codes.Error, "persistence failed")
		return err
	}

	s.logger.Info().Str("email", maskEmail(admin.Email)).Msg("admin account created")
	span.SetStatus(codes.Ok, "created")

	return nil
}

// Authenticate verifies the credential pair. Unknown email and wrong password
// both come back as ErrInvalidCredentials; the paths are deliberately
// indistinguishable to the caller.
func (s *adminService) Authenticate(ctx context.Context, req dto.AdminCredentialsRequest) (models.Admin, error) {
	ctx, span := s.tracer.Start(ctx, "admin.authenticate")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return models.Admin{}, err
	}

	admin, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "lookup failed")
			return models.Admin{}, err
		}
		span.SetStatus(codes.Error, "invalid credentials")
		return models.Admin{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return models.Admin{}, ErrInvalidCredentials
	}

	s.logger.Info().Str("email", maskEmail(admin.Email)).Msg("admin authenticated")
	span.SetStatus(codes.Ok, "authenticated")

	return admin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
