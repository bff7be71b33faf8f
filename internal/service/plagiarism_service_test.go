package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/gradelens/gradelens-api/internal/cache"
	"github.com/gradelens/gradelens-api/internal/dto"
	"github.com/gradelens/gradelens-api/internal/models"
	"github.com/gradelens/gradelens-api/internal/plagiarism"
)

func testPlagiarismService(repo *fakeSubmissionRepo, reports *fakeReportRepo) PlagiarismService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	detector := plagiarism.NewDetector(plagiarism.DefaultConfig(), testLogger())
	return NewPlagiarismService(repo, reports, detector, cache.NewMemory(), validate, nil, testLogger(), PlagiarismServiceOptions{})
}

func TestPlagiarismServiceFlagsCopiedSubmission(t *testing.T) {
	target := gradableSubmission(1)
	repo := newFakeSubmissionRepo(target)
	repo.peers = []models.Submission{{ID: 5, StudentID: 9, Content: target.Content}}
	reports := newFakeReportRepo()
	svc := testPlagiarismService(repo, reports)

	response, err := svc.CheckSubmission(context.Background(), 1, ActivityActor{ID: 10, Role: "teacher"})
	require.NoError(t, err)
	require.True(t, response.Suspicious)
	require.Greater(t, response.SimilarityScore, 40.0)
	require.NotEmpty(t, response.Matches)
	require.Equal(t, uint(5), response.Matches[0].ComparedSubmissionID)

	require.Equal(t, 1, reports.upserts)
	stored := reports.reports[1]
	require.True(t, stored.Suspicious)

	flagged := repo.submissions[1]
	require.Equal(t, models.SubmissionStatusFlagged, flagged.Status)
}

func TestPlagiarismServiceCleanSubmission(t *testing.T) {
	repo := newFakeSubmissionRepo(gradableSubmission(1))
	reports := newFakeReportRepo()
	svc := testPlagiarismService(repo, reports)

	response, err := svc.CheckSubmission(context.Background(), 1, ActivityActor{})
	require.NoError(t, err)
	require.False(t, response.Suspicious)
	require.True(t, response.InternalFallback, "no comparison sources means internal fallback")
	require.Equal(t, models.SubmissionStatusSubmitted, repo.submissions[1].Status)
}

func TestPlagiarismServiceDegradesOnComparisonFailure(t *testing.T) {
	repo := newFakeSubmissionRepo(gradableSubmission(1))
	repo.peersErr = errors.New("deadline exceeded")
	reports := newFakeReportRepo()
	svc := testPlagiarismService(repo, reports)

	baseline := testPlagiarismService(newFakeSubmissionRepo(gradableSubmission(1)), newFakeReportRepo())
	clean, err := baseline.CheckSubmission(context.Background(), 1, ActivityActor{})
	require.NoError(t, err)

	degraded, err := svc.CheckSubmission(context.Background(), 1, ActivityActor{})
	require.NoError(t, err)
	require.True(t, degraded.InternalFallback)
	require.Less(t, degraded.Confidence, clean.Confidence)
}

func TestPlagiarismServiceSubmissionNotFound(t *testing.T) {
	svc := testPlagiarismService(newFakeSubmissionRepo(), newFakeReportRepo())

	_, err := svc.CheckSubmission(context.Background(), 404, ActivityActor{})
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestPlagiarismServiceCheckText(t *testing.T) {
	svc := testPlagiarismService(newFakeSubmissionRepo(), newFakeReportRepo())

	response, err := svc.CheckText(context.Background(), dto.PlagiarismCheckRequest{
		Content: testEssay,
		Sources: []string{testEssay},
	})
	require.NoError(t, err)
	require.True(t, response.Suspicious)
	require.NotNil(t, response.Authorship)
}

func TestPlagiarismServiceGetReportNotFound(t *testing.T) {
	svc := testPlagiarismService(newFakeSubmissionRepo(), newFakeReportRepo())

	_, err := svc.GetReport(context.Background(), 1)
	require.ErrorIs(t, err, ErrReportNotFound)
}
