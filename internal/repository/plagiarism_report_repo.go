package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gradelens/gradelens-api/internal/models"
)

// PlagiarismReportRepository persists originality check results.
type PlagiarismReportRepository interface {
	Upsert(ctx context.Context, report *models.PlagiarismReport) error
	GetBySubmission(ctx context.Context, submissionID uint) (models.PlagiarismReport, error)
	ListSuspicious(ctx context.Context, limit int) ([]models.PlagiarismReport, error)
}

type plagiarismReportRepository struct {
	db *gorm.DB
}

// NewPlagiarismReportRepository constructs the report repository.
func NewPlagiarismReportRepository(db *gorm.DB) PlagiarismReportRepository {
	return &plagiarismReportRepository{db: db}
}

// Upsert writes the report, replacing any previous check for the same
// submission so rechecks never accumulate stale rows.
func (r *plagiarismReportRepository) Upsert(ctx context.Context, report *models.PlagiarismReport) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "submission_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"similarity_score", "suspicious", "paraphrase_detected", "confidence",
			"ai_score", "ai_flagged", "analysis", "matches", "matched_sources",
			"suspicious_segments", "internal_fallback", "checked_at", "updated_at",
		}),
	}).Create(report).Error
}

func (r *plagiarismReportRepository) GetBySubmission(ctx context.Context, submissionID uint) (models.PlagiarismReport, error) {
	var report models.PlagiarismReport
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&report).Error; err != nil {
		return models.PlagiarismReport{}, err
	}

	return report, nil
}

func (r *plagiarismReportRepository) ListSuspicious(ctx context.Context, limit int) ([]models.PlagiarismReport, error) {
	query := r.db.WithContext(ctx).
		Where("suspicious = ?", true).
		Order("checked_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var reports []models.PlagiarismReport
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}

	return reports, nil
}
