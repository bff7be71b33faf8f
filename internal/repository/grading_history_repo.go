package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/models"
)

// GradingHistoryRepository persists the audit trail of automated grades.
type GradingHistoryRepository interface {
	Create(ctx context.Context, entry *models.GradingHistory) error
	ListBySubmission(ctx context.Context, submissionID uint) ([]models.GradingHistory, error)
}

type gradingHistoryRepository struct {
	db *gorm.DB
}

// NewGradingHistoryRepository constructs the history repository.
func NewGradingHistoryRepository(db *gorm.DB) GradingHistoryRepository {
	return &gradingHistoryRepository{db: db}
}

func (r *gradingHistoryRepository) Create(ctx context.Context, entry *models.GradingHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gradingHistoryRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.GradingHistory, error) {
	var entries []models.GradingHistory
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("graded_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
