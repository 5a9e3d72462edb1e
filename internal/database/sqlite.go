package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/publicpulse/publicpulse-api/internal/models"
)

// Connect opens the SQLite database file at the given path. TranslateError is
// enabled so unique-constraint violations surface as gorm.ErrDuplicatedKey
// instead of raw driver errors.
func Connect(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path must not be empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return db, nil
}

// Migrate ensures the four tables exist. AutoMigrate is create-if-absent and
// safe to run on every start.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Issue{},
		&models.Contact{},
		&models.ReportLog{},
		&models.Admin{},
	)
}
