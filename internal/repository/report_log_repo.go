package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/publicpulse/publicpulse-api/internal/models"
)

// ReportLogFilter narrows audit log queries.
type ReportLogFilter struct {
	Page     int
	PageSize int
	IssueID  *uint
}

// ReportLogRepository persists the append-only issue audit trail.
type ReportLogRepository interface {
	Create(ctx context.Context, entry *models.ReportLog) error
	List(ctx context.Context, filter ReportLogFilter) ([]models.ReportLog, int64, error)
}

type reportLogRepository struct {
	db *gorm.DB
}

// NewReportLogRepository constructs a repository backed by GORM.
func NewReportLogRepository(db *gorm.DB) ReportLogRepository {
	return &reportLogRepository{db: db}
}

func (r *reportLogRepository) Create(ctx context.Context, entry *models.ReportLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *reportLogRepository) List(ctx context.Context, filter ReportLogFilter) ([]models.ReportLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReportLog{})

	if filter.IssueID != nil {
		query = query.Where("issue_id = ?", *filter.IssueID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entries []models.ReportLog
	if err := query.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
