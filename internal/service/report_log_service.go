package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/publicpulse/publicpulse-api/internal/dto"
	"github.com/publicpulse/publicpulse-api/internal/repository"
)

// ReportLogService exposes the admin read surface over the issue audit trail.
type ReportLogService interface {
	List(ctx context.Context, filter repository.ReportLogFilter) ([]dto.ReportLogResponse, int64, error)
}

type reportLogService struct {
	repo   repository.ReportLogRepository
	logger zerolog.Logger
}

// NewReportLogService constructs the report log service.
func NewReportLogService(repo repository.ReportLogRepository, logger zerolog.Logger) ReportLogService {
	return &reportLogService{
		repo:   repo,
		logger: logger.With().Str("component", "report_log_service").Logger(),
	}
}

func (s *reportLogService) List(ctx context.Context, filter repository.ReportLogFilter) ([]dto.ReportLogResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return dto.NewReportLogResponses(entries), total, nil
}
