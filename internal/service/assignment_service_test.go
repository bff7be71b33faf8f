package service

import (
	"context"
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

func setupAssignmentService(t *testing.T) AssignmentService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Assignment{}, &models.Submission{}, &models.Student{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAssignmentService(repository.NewAssignmentRepository(db), validate, testLogger())
}

func TestAssignmentServiceCreateWithRubric(t *testing.T) {
	svc := setupAssignmentService(t)

	created, err := svc.Create(context.Background(), dto.AssignmentCreateRequest{
		Title:       "Climate Essay",
		Description: "Argue a position on carbon pricing.",
		DueDate:     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		Rubric: map[string]dto.RubricCriterionRequest{
			"content":   {MaxPoints: 40, MinWords: 200},
			"structure": {MaxPoints: 30},
			"grammar":   {MaxPoints: 30},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Len(t, created.Rubric, 3)
	require.Equal(t, float64(40), created.Rubric["content"].MaxPoints)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Rubric, fetched.Rubric)
}

func TestAssignmentServiceRejectsPastDueDate(t *testing.T) {
	svc := setupAssignmentService(t)

	_, err := svc.Create(context.Background(), dto.AssignmentCreateRequest{
		Title:       "Late Assignment",
		Description: "This deadline already passed.",
		DueDate:     time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	require.Error(t, err)
}

func TestAssignmentServiceRejectsInvalidRubric(t *testing.T) {
	svc := setupAssignmentService(t)

	_, err := svc.Create(context.Background(), dto.AssignmentCreateRequest{
		Title:       "Broken Rubric",
		Description: "Criterion weight is negative.",
		DueDate:     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		Rubric: map[string]dto.RubricCriterionRequest{
			"content": {MaxPoints: 40, Weight: -1},
		},
	})
	require.Error(t, err)
}

func TestAssignmentServiceUpdateAndDelete(t *testing.T) {
	svc := setupAssignmentService(t)

	created, err := svc.Create(context.Background(), dto.AssignmentCreateRequest{
		Title:       "Draft Title",
		Description: "Initial description text.",
		DueDate:     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)

	title := "Final Title"
	updated, err := svc.Update(context.Background(), created.ID, dto.AssignmentUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Final Title", updated.Title)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), created.ID), ErrAssignmentNotFound)

	_, err = svc.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}
