package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/models"
	"github.com/gradelens/gradelens-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[uint]models.Submission
	prior       []models.Submission
	peers       []models.Submission
	priorErr    error
	peersErr    error
	updateCalls int
}

func newFakeSubmissionRepo(submissions ...models.Submission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{submissions: map[uint]models.Submission{}}
	for _, submission := range submissions {
		repo.submissions[submission.ID] = submission
	}
	return repo
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]models.Submission, 0, len(f.submissions))
	for _, submission := range f.submissions {
		result = append(result, submission)
	}
	return result, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	submission, ok := f.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	submission.ID = uint(len(f.submissions) + 1)
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) ListPriorByStudent(ctx context.Context, studentID, excludeSubmissionID uint, limit int) ([]models.Submission, error) {
	if f.priorErr != nil {
		return nil, f.priorErr
	}
	return f.prior, nil
}

func (f *fakeSubmissionRepo) ListAssignmentPeers(ctx context.Context, assignmentID, excludeStudentID uint) ([]models.Submission, error) {
	if f.peersErr != nil {
		return nil, f.peersErr
	}
	return f.peers, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []models.GradingHistory
}

func (f *fakeHistoryRepo) Create(ctx context.Context, entry *models.GradingHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListBySubmission(ctx context.Context, submissionID uint) ([]models.GradingHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.GradingHistory
	for _, entry := range f.entries {
		if entry.SubmissionID == submissionID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[uint]models.PlagiarismReport
	upserts int
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[uint]models.PlagiarismReport{}}
}

func (f *fakeReportRepo) Upsert(ctx context.Context, report *models.PlagiarismReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.reports[report.SubmissionID] = *report
	return nil
}

func (f *fakeReportRepo) GetBySubmission(ctx context.Context, submissionID uint) (models.PlagiarismReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[submissionID]
	if !ok {
		return models.PlagiarismReport{}, gorm.ErrRecordNotFound
	}
	return report, nil
}

func (f *fakeReportRepo) ListSuspicious(ctx context.Context, limit int) ([]models.PlagiarismReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.PlagiarismReport
	for _, report := range f.reports {
		if report.Suspicious {
			result = append(result, report)
		}
	}
	return result, nil
}
