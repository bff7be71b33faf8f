package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/models"
)

// AnalyticsRepository supplies aggregate data for grading dashboards.
type AnalyticsRepository interface {
	CountActiveStudents(ctx context.Context) (int64, error)
	CountSubmissionsByStatus(ctx context.Context) (map[string]int64, error)
	AverageGrade(ctx context.Context) (float64, error)
	CountSuspiciousReports(ctx context.Context) (int64, error)
	ListGradedSince(ctx context.Context, since time.Time) ([]models.Submission, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository constructs the analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountActiveStudents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("status = ?", models.StudentStatusActive).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountSubmissionsByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func (r *analyticsRepository) AverageGrade(ctx context.Context) (float64, error) {
	var average *float64
	if err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("grade IS NOT NULL").
		Select("AVG(grade)").
		Scan(&average).Error; err != nil {
		return 0, err
	}

	if average == nil {
		return 0, nil
	}

	return *average, nil
}

func (r *analyticsRepository) CountSuspiciousReports(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PlagiarismReport{}).
		Where("suspicious = ?", true).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) ListGradedSince(ctx context.Context, since time.Time) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SubmissionStatusGraded).
		Where("graded_at >= ?", since).
		Preload("Assignment").
		Find(&submissions).Error
	return submissions, err
}
