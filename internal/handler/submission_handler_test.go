package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/cache"
	"github.com/gradelens/gradelens-api/internal/config"
	"github.com/gradelens/gradelens-api/internal/dto"
	"github.com/gradelens/gradelens-api/internal/grading"
	"github.com/gradelens/gradelens-api/internal/handler"
	"github.com/gradelens/gradelens-api/internal/models"
	"github.com/gradelens/gradelens-api/internal/plagiarism"
	"github.com/gradelens/gradelens-api/internal/repository"
	"github.com/gradelens/gradelens-api/internal/router"
	"github.com/gradelens/gradelens-api/internal/service"
)

const handlerEssay = `Renewable energy has become the defining infrastructure question of this century. ` +
	`Solar and wind installations now undercut fossil fuel plants on cost in most markets, and the gap keeps widening. ` +
	`However, critics argue that intermittency remains unsolved. Battery storage prices have fallen steadily, ` +
	`which suggests that grid operators can smooth supply because storage absorbs the afternoon surplus. ` +
	`Therefore governments should accelerate permitting reform. In conclusion, the evidence points one way, ` +
	`and the remaining obstacles are political rather than technical.`

func setupSubmissionApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{}, &models.Assignment{}, &models.Submission{},
		&models.GradingHistory{}, &models.PlagiarismReport{}, &models.ActivityLog{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	historyRepo := repository.NewGradingHistoryRepository(db)
	reportRepo := repository.NewPlagiarismReportRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	engine := grading.NewEngine(grading.DefaultConfig(), logger)
	detector := plagiarism.NewDetector(plagiarism.DefaultConfig(), logger)
	results := cache.NewMemory()

	activityService := service.NewActivityService(activityRepo, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, historyRepo, validate, logger)
	gradingService := service.NewGradingService(submissionRepo, historyRepo, engine, results, nil, validate, activityService, logger)
	plagiarismService := service.NewPlagiarismService(submissionRepo, reportRepo, detector, results, validate, activityService, logger, service.PlagiarismServiceOptions{})

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		GradingHandler:    handler.NewGradingHandler(gradingService, logger),
		PlagiarismHandler: handler.NewPlagiarismHandler(plagiarismService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", "teacher")
			return c.Next()
		},
	})

	return app, db
}

func seedAssignmentAndStudent(t *testing.T, db *gorm.DB, due time.Time) (uint, uint) {
	t.Helper()

	student := models.Student{Name: "Ada", Email: "ada@example.com", Status: models.StudentStatusActive}
	require.NoError(t, db.Create(&student).Error)

	assignment := models.Assignment{Title: "Persuasive Essay", DueDate: due}
	require.NoError(t, db.Create(&assignment).Error)

	return assignment.ID, student.ID
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSubmissionHandlerCreateAndGrade(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignmentID, studentID := seedAssignmentAndStudent(t, db, time.Now().Add(24*time.Hour))

	resp := postJSON(t, app, "/api/v1/submissions", dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      handlerEssay,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeBody(t, resp, &created)
	require.Equal(t, models.SubmissionStatusSubmitted, created.Data.Status)
	require.Greater(t, created.Data.WordCount, 50)

	resp = postJSON(t, app, "/api/v1/grading/submissions/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var graded struct {
		Data dto.GradeResponse `json:"data"`
	}
	decodeBody(t, resp, &graded)
	require.Greater(t, graded.Data.TotalScore, 0.0)
	require.LessOrEqual(t, graded.Data.TotalScore, 100.0)
	require.Len(t, graded.Data.Criteria, 4)
	require.False(t, graded.Data.Cached)
}

func TestSubmissionHandlerRejectsPastDueAssignment(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignmentID, studentID := seedAssignmentAndStudent(t, db, time.Now().Add(-time.Hour))

	resp := postJSON(t, app, "/api/v1/submissions", dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      handlerEssay,
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmissionHandlerUnknownAssignment(t *testing.T) {
	app, _ := setupSubmissionApp(t)

	resp := postJSON(t, app, "/api/v1/submissions", dto.SubmissionCreateRequest{
		AssignmentID: 42,
		StudentID:    1,
		Content:      handlerEssay,
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPlagiarismHandlerReportNotFound(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignmentID, studentID := seedAssignmentAndStudent(t, db, time.Now().Add(24*time.Hour))

	resp := postJSON(t, app, "/api/v1/submissions", dto.SubmissionCreateRequest{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      handlerEssay,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plagiarism/submissions/1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
