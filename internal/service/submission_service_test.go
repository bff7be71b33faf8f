package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/dto"
	"github.com/gradelens/gradelens-api/internal/models"
	"github.com/gradelens/gradelens-api/internal/repository"
)

const submissionEssay = `Public libraries remain one of the few civic spaces open to everyone. ` +
	`They lend books, yes, but they also host job training, language classes, and quiet rooms for students. ` +
	`Critics claim the internet made them obsolete. However, usage data shows the opposite trend in most cities. ` +
	`Therefore funding should grow, not shrink. In conclusion, a library card is still the cheapest education available.`

func setupSubmissionService(t *testing.T) (SubmissionService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{}, &models.Assignment{}, &models.Submission{}, &models.GradingHistory{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewGradingHistoryRepository(db),
		validate,
		testLogger(),
	)
	return svc, db
}

func seedSubmissionFixtures(t *testing.T, db *gorm.DB, due time.Time) (uint, uint) {
	t.Helper()

	student := models.Student{Name: "Grace", Email: "grace@example.com", Status: models.StudentStatusActive}
	require.NoError(t, db.Create(&student).Error)

	assignment := models.Assignment{Title: "Civic Essay", DueDate: due}
	require.NoError(t, db.Create(&assignment).Error)

	return assignment.ID, student.ID
}

func TestSubmissionServiceCreate(t *testing.T) {
	svc, db := setupSubmissionService(t)
	assignmentID, studentID := seedSubmissionFixtures(t, db, time.Now().Add(24*time.Hour))

	created, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      submissionEssay,
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusSubmitted, created.Status)
	require.Greater(t, created.WordCount, 40)
	require.Equal(t, "Civic Essay", created.Assignment.Title)
	require.Equal(t, "Grace", created.Student.Name)
}

func TestSubmissionServiceCreateStripsMarkup(t *testing.T) {
	svc, db := setupSubmissionService(t)
	assignmentID, studentID := seedSubmissionFixtures(t, db, time.Now().Add(24*time.Hour))

	created, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      "<script>alert(1)</script> A plain sentence about libraries and their value to cities.",
	})
	require.NoError(t, err)
	require.NotContains(t, created.Content, "<script>")
	require.Contains(t, created.Content, "plain sentence")
}

func TestSubmissionServiceCreateRejectsEmptyAfterSanitize(t *testing.T) {
	svc, db := setupSubmissionService(t)
	assignmentID, studentID := seedSubmissionFixtures(t, db, time.Now().Add(24*time.Hour))

	_, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      "<b></b>",
	})
	require.ErrorIs(t, err, ErrContentEmpty)
}

func TestSubmissionServiceCreatePastDue(t *testing.T) {
	svc, db := setupSubmissionService(t)
	assignmentID, studentID := seedSubmissionFixtures(t, db, time.Now().Add(-time.Hour))

	_, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      submissionEssay,
	})
	require.ErrorIs(t, err, ErrAssignmentPastDue)
}

func TestSubmissionServiceCreateFromUpload(t *testing.T) {
	svc, db := setupSubmissionService(t)
	assignmentID, studentID := seedSubmissionFixtures(t, db, time.Now().Add(24*time.Hour))

	file := multipartFile(t, "essay.txt", submissionEssay)
	created, err := svc.CreateFromUpload(context.Background(), dto.SubmissionUploadRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
	}, file)
	require.NoError(t, err)
	require.Greater(t, created.WordCount, 40)
}

func TestSubmissionServiceUploadRejectsBinary(t *testing.T) {
	svc, db := setupSubmissionService(t)
	assignmentID, studentID := seedSubmissionFixtures(t, db, time.Now().Add(24*time.Hour))

	file := multipartFile(t, "essay.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")
	_, err := svc.CreateFromUpload(context.Background(), dto.SubmissionUploadRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
	}, file)
	require.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestSubmissionServiceListFiltersByStatus(t *testing.T) {
	svc, db := setupSubmissionService(t)
	assignmentID, studentID := seedSubmissionFixtures(t, db, time.Now().Add(24*time.Hour))

	_, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      submissionEssay,
	})
	require.NoError(t, err)

	graded := models.SubmissionStatusGraded
	listed, err := svc.List(context.Background(), dto.SubmissionFilter{Status: &graded})
	require.NoError(t, err)
	require.Empty(t, listed)

	submitted := models.SubmissionStatusSubmitted
	listed, err = svc.List(context.Background(), dto.SubmissionFilter{Status: &submitted})
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func multipartFile(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}
