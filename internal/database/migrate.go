package database

import (
	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/models"
)

// Migrate applies the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Student{},
		&models.Assignment{},
		&models.Submission{},
		&models.GradingHistory{},
		&models.PlagiarismReport{},
		&models.ActivityLog{},
	)
}
