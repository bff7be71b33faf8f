package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/cache"
	"github.com/gradelens/gradelens-api/internal/dto"
	"github.com/gradelens/gradelens-api/internal/models"
	"github.com/gradelens/gradelens-api/internal/repository"
	"github.com/gradelens/gradelens-api/internal/textstat"
)

// ErrAssignmentPastDue indicates the assignment deadline has already passed.
var ErrAssignmentPastDue = errors.New("assignment is past due")

// ErrUnsupportedFileType indicates an uploaded essay was not plain text.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// maxEssayUploadBytes bounds how much of an uploaded file is read.
const maxEssayUploadBytes = 1 << 20

// SubmissionService orchestrates essay submission workflows.
type SubmissionService interface {
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	Create(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	CreateFromUpload(ctx context.Context, payload dto.SubmissionUploadRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	history     repository.GradingHistoryRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, historyRepo repository.GradingHistoryRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		assignments: assignmentRepo,
		history:     historyRepo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{
		AssignmentID: filter.AssignmentID,
		StudentID:    filter.StudentID,
		Status:       filter.Status,
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if history, err := s.history.ListBySubmission(ctx, id); err == nil {
		submission.History = history
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Create(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	return s.create(ctx, payload.AssignmentID, payload.StudentID, payload.Content)
}

// CreateFromUpload accepts a plain-text essay file and stores its content.
func (s *submissionService) CreateFromUpload(ctx context.Context, payload dto.SubmissionUploadRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if file == nil {
		return dto.SubmissionResponse{}, fmt.Errorf("essay file is required")
	}

	content, err := readEssayFile(file)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return s.create(ctx, payload.AssignmentID, payload.StudentID, content)
}

func (s *submissionService) create(ctx context.Context, assignmentID, studentID uint, rawContent string) (dto.SubmissionResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if assignment.IsPastDue(s.now()) {
		return dto.SubmissionResponse{}, ErrAssignmentPastDue
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(rawContent))
	if content == "" {
		return dto.SubmissionResponse{}, ErrContentEmpty
	}

	submission := models.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      content,
		ContentHash:  cache.Key(content),
		WordCount:    textstat.WordCount(content),
		Status:       models.SubmissionStatusSubmitted,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	// Reload with associations
	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", created.ID).
		Int("word_count", created.WordCount).
		Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

func readEssayFile(file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxEssayUploadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	mime := mimetype.Detect(data)
	for allowed := mime; allowed != nil; allowed = allowed.Parent() {
		if allowed.Is("text/plain") {
			return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, mime.String())
}
