package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/publicpulse/publicpulse-api/internal/models"
)

// IssueRepository persists civic issue reports.
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	IncrementVotes(ctx context.Context, title string) (int64, error)
	ListByVotes(ctx context.Context) ([]models.Issue, error)
	ListByCreated(ctx context.Context) ([]models.Issue, error)
	UpdateStatus(ctx context.Context, id uint, status string) (int64, error)
}

type issueRepository struct {
	db *gorm.DB
}

// NewIssueRepository constructs a repository backed by GORM.
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) Create(ctx context.Context, issue *models.Issue) error {
	return r.db.WithContext(ctx).Create(issue).Error
}

// IncrementVotes bumps the vote counter for the issue with the given title.
// The increment happens inside the database, so concurrent votes on the same
// title never lose updates. Returns the number of rows touched; zero means no
// issue with that title exists yet.
func (r *issueRepository) IncrementVotes(ctx context.Context, title string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("title = ?", title).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1))
	return result.RowsAffected, result.Error
}

func (r *issueRepository) ListByVotes(ctx context.Context) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.WithContext(ctx).
		Order("votes DESC, created_at DESC, id DESC").
		Find(&issues).Error
	return issues, err
}

func (r *issueRepository) ListByCreated(ctx context.Context) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&issues).Error
	return issues, err
}

func (r *issueRepository) UpdateStatus(ctx context.Context, id uint, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}
