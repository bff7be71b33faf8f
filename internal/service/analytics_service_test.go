package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gradelens/gradelens-api/internal/models"
)

type fakeAnalyticsRepo struct {
	students   int64
	counts     map[string]int64
	average    float64
	suspicious int64
	recent     []models.Submission
	calls      int
}

func (f *fakeAnalyticsRepo) CountActiveStudents(ctx context.Context) (int64, error) {
	f.calls++
	return f.students, nil
}

func (f *fakeAnalyticsRepo) CountSubmissionsByStatus(ctx context.Context) (map[string]int64, error) {
	return f.counts, nil
}

func (f *fakeAnalyticsRepo) AverageGrade(ctx context.Context) (float64, error) {
	return f.average, nil
}

func (f *fakeAnalyticsRepo) CountSuspiciousReports(ctx context.Context) (int64, error) {
	return f.suspicious, nil
}

func (f *fakeAnalyticsRepo) ListGradedSince(ctx context.Context, since time.Time) ([]models.Submission, error) {
	return f.recent, nil
}

func TestAnalyticsServiceSummary(t *testing.T) {
	grade := 88.0
	repo := &fakeAnalyticsRepo{
		students:   12,
		counts:     map[string]int64{models.SubmissionStatusGraded: 7, models.SubmissionStatusSubmitted: 3},
		average:    81.5,
		suspicious: 2,
		recent:     []models.Submission{{ID: 1, Grade: &grade}},
	}
	svc := NewAnalyticsService(repo, nil, time.Minute, testLogger())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(12), summary.ActiveStudents)
	require.Equal(t, int64(7), summary.SubmissionsByStatus[models.SubmissionStatusGraded])
	require.InDelta(t, 81.5, summary.AverageGrade, 1e-9)
	require.Equal(t, int64(2), summary.SuspiciousReports)
	require.Equal(t, 1, summary.GradedLastSevenDays)
	require.InDelta(t, 88.0, summary.AverageGradeRecent, 1e-9)
	require.False(t, summary.Cached)
}

func TestAnalyticsServiceSummaryCached(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	repo := &fakeAnalyticsRepo{students: 5, counts: map[string]int64{}}
	svc := NewAnalyticsService(repo, client, time.Minute, testLogger())

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Equal(t, 1, repo.calls)

	second, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, int64(5), second.ActiveStudents)
	require.Equal(t, 1, repo.calls, "cached summary must not hit the database")
}
