package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/dto"
	"github.com/gradelens/gradelens-api/internal/models"
	"github.com/gradelens/gradelens-api/internal/repository"
)

func setupStudentService(t *testing.T) StudentService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewStudentService(repository.NewStudentRepository(db), validate, testLogger())
}

func TestStudentServiceCreateNormalizesEmail(t *testing.T) {
	svc := setupStudentService(t)

	created, err := svc.Create(context.Background(), dto.StudentCreateRequest{
		Name:  "Alan Turing",
		Email: " Alan@Example.COM ",
	})
	require.NoError(t, err)
	require.Equal(t, "alan@example.com", created.Email)
	require.Equal(t, models.StudentStatusActive, created.Status)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Email, fetched.Email)
}

func TestStudentServiceCreateRejectsDuplicateEmail(t *testing.T) {
	svc := setupStudentService(t)

	_, err := svc.Create(context.Background(), dto.StudentCreateRequest{Name: "Alan", Email: "alan@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.StudentCreateRequest{Name: "Alan Again", Email: "alan@example.com"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	svc := setupStudentService(t)

	_, err := svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentServiceListSortedByName(t *testing.T) {
	svc := setupStudentService(t)

	_, err := svc.Create(context.Background(), dto.StudentCreateRequest{Name: "Zoe", Email: "zoe@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), dto.StudentCreateRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	students, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "Ada", students[0].Name)
}
