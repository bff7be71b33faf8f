package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Assignment{},
		&models.Submission{},
		&models.GradingHistory{},
		&models.PlagiarismReport{},
		&models.ActivityLog{},
	))
	return db
}

func seedSubmission(t *testing.T, db *gorm.DB, assignmentID, studentID uint, content string, age time.Duration) models.Submission {
	t.Helper()
	submission := models.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      content,
		Status:       models.SubmissionStatusSubmitted,
		CreatedAt:    time.Now().Add(-age),
	}
	require.NoError(t, db.Create(&submission).Error)
	return submission
}

func TestSubmissionRepositoryListPriorByStudent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	student := models.Student{Name: "Alice Johnson", Email: "alice@example.com", Status: models.StudentStatusActive}
	require.NoError(t, db.Create(&student).Error)
	assignment := models.Assignment{Title: "Essay One", DueDate: time.Now().Add(24 * time.Hour)}
	require.NoError(t, db.Create(&assignment).Error)

	oldest := seedSubmission(t, db, assignment.ID, student.ID, "first draft", 3*time.Hour)
	middle := seedSubmission(t, db, assignment.ID, student.ID, "second draft", 2*time.Hour)
	current := seedSubmission(t, db, assignment.ID, student.ID, "final draft", time.Hour)

	prior, err := repo.ListPriorByStudent(context.Background(), student.ID, current.ID, 10)
	require.NoError(t, err)
	require.Len(t, prior, 2)
	require.Equal(t, middle.ID, prior[0].ID, "expected newest prior submission first")
	require.Equal(t, oldest.ID, prior[1].ID)

	limited, err := repo.ListPriorByStudent(context.Background(), student.ID, current.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, middle.ID, limited[0].ID)
}

func TestSubmissionRepositoryListAssignmentPeers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)

	alice := models.Student{Name: "Alice Johnson", Email: "alice@example.com", Status: models.StudentStatusActive}
	bob := models.Student{Name: "Bob Stone", Email: "bob@example.com", Status: models.StudentStatusActive}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)
	assignment := models.Assignment{Title: "Essay One", DueDate: time.Now().Add(24 * time.Hour)}
	other := models.Assignment{Title: "Essay Two", DueDate: time.Now().Add(48 * time.Hour)}
	require.NoError(t, db.Create(&assignment).Error)
	require.NoError(t, db.Create(&other).Error)

	seedSubmission(t, db, assignment.ID, alice.ID, "alice essay", time.Hour)
	bobs := seedSubmission(t, db, assignment.ID, bob.ID, "bob essay", time.Hour)
	seedSubmission(t, db, other.ID, bob.ID, "bob other essay", time.Hour)

	peers, err := repo.ListAssignmentPeers(context.Background(), assignment.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, peers, 1)
	require.Equal(t, bobs.ID, peers[0].ID)
}

func TestPlagiarismReportRepositoryUpsertReplacesPrevious(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlagiarismReportRepository(db)

	first := models.PlagiarismReport{SubmissionID: 7, SimilarityScore: 12, Suspicious: false, CheckedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Upsert(context.Background(), &first))

	second := models.PlagiarismReport{SubmissionID: 7, SimilarityScore: 48, Suspicious: true, CheckedAt: time.Now()}
	require.NoError(t, repo.Upsert(context.Background(), &second))

	stored, err := repo.GetBySubmission(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, stored.Suspicious)
	require.Equal(t, float64(48), stored.SimilarityScore)

	var count int64
	require.NoError(t, db.Model(&models.PlagiarismReport{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAnalyticsRepositoryAggregates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)

	active := models.Student{Name: "Alice Johnson", Email: "alice@example.com", Status: models.StudentStatusActive}
	inactive := models.Student{Name: "Bob Stone", Email: "bob@example.com", Status: models.StudentStatusInactive}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&inactive).Error)

	assignment := models.Assignment{Title: "Essay One", DueDate: time.Now().Add(24 * time.Hour)}
	require.NoError(t, db.Create(&assignment).Error)

	gradedAt := time.Now()
	grade := 80.0
	graded := models.Submission{AssignmentID: assignment.ID, StudentID: active.ID, Content: "graded essay", Status: models.SubmissionStatusGraded, Grade: &grade, GradedAt: &gradedAt}
	pending := models.Submission{AssignmentID: assignment.ID, StudentID: inactive.ID, Content: "pending essay", Status: models.SubmissionStatusSubmitted}
	require.NoError(t, db.Create(&graded).Error)
	require.NoError(t, db.Create(&pending).Error)

	students, err := repo.CountActiveStudents(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), students)

	counts, err := repo.CountSubmissionsByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[models.SubmissionStatusGraded])
	require.Equal(t, int64(1), counts[models.SubmissionStatusSubmitted])

	average, err := repo.AverageGrade(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 80.0, average, 1e-9)

	recent, err := repo.ListGradedSince(context.Background(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, recent, 1)
}
