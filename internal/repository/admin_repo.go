package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/publicpulse/publicpulse-api/internal/models"
)

// AdminRepository persists dashboard accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByEmail(ctx context.Context, email string) (models.Admin, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs a repository backed by GORM.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	return admin, err
}
