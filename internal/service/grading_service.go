package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/cache"
	"github.com/gradelens/gradelens-api/internal/dto"
	"github.com/gradelens/gradelens-api/internal/grading"
	"github.com/gradelens/gradelens-api/internal/models"
	"github.com/gradelens/gradelens-api/internal/observability"
	"github.com/gradelens/gradelens-api/internal/repository"
	"github.com/gradelens/gradelens-api/pkg/ai"
)

// ErrSubmissionNotFound indicates the submission was not located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrContentEmpty indicates the essay text was empty after sanitization.
var ErrContentEmpty = errors.New("content empty after sanitization")

const batchGradeConcurrency = 4

// GradingService evaluates stored submissions and ad-hoc essay text.
type GradingService interface {
	Grade(ctx context.Context, submissionID uint, payload dto.GradeRequest, actor ActivityActor) (dto.GradeResponse, error)
	GradeText(ctx context.Context, payload dto.GradeTextRequest) (dto.GradeResponse, error)
	BatchGrade(ctx context.Context, payload dto.BatchGradeRequest, actor ActivityActor) (dto.BatchGradeResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	history     repository.GradingHistoryRepository
	engine      *grading.Engine
	results     cache.Store
	reviewer    ai.Reviewer
	validator   *validator.Validate
	activity    ActivityRecorder
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewGradingService constructs the grading service. The reviewer is optional;
// when nil, engine grades are final.
func NewGradingService(
	submissions repository.SubmissionRepository,
	history repository.GradingHistoryRepository,
	engine *grading.Engine,
	results cache.Store,
	reviewer ai.Reviewer,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		submissions: submissions,
		history:     history,
		engine:      engine,
		results:     results,
		reviewer:    reviewer,
		validator:   validate,
		activity:    activity,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "grading_service").Logger(),
		tracer:      otel.Tracer("github.com/gradelens/gradelens-api/internal/service/grading"),
		now:         time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, submissionID uint, payload dto.GradeRequest, actor ActivityActor) (dto.GradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.grade", trace.WithAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GradeResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.GradeResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.GradeResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(submission.Content))
	if content == "" {
		span.SetStatus(codes.Error, "content_empty")
		return dto.GradeResponse{}, ErrContentEmpty
	}

	rubric := dto.ToRubric(payload.Rubric)
	if len(rubric) == 0 {
		rubric, err = submission.Assignment.RubricCriteria()
		if err != nil {
			s.logger.Warn().Err(err).Uint("assignment_id", submission.AssignmentID).Msg("invalid stored rubric, using default")
			rubric = nil
		}
	}
	if len(rubric) == 0 {
		rubric = grading.DefaultRubric()
	}

	key := cache.Key(content)
	if cached, ok := s.cachedResult(ctx, key); ok {
		span.SetAttributes(attribute.Bool("grading.cached", true))
		if err := s.persistGrade(ctx, &submission, *cached, true); err != nil {
			span.RecordError(err)
			return dto.GradeResponse{}, err
		}
		return dto.NewGradeResponse(submission.ID, *cached, true, s.now()), nil
	}

	start := s.now()
	result, err := s.engine.Grade(content, rubric)
	observability.GradingDuration().WithLabelValues("engine").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.GradingRuns().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading_failed")
		return dto.GradeResponse{}, err
	}

	result = s.applyReview(ctx, submission, result)

	if err := s.persistGrade(ctx, &submission, result, false); err != nil {
		span.RecordError(err)
		return dto.GradeResponse{}, err
	}

	if err := s.results.PutGrading(ctx, key, result); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache grading result")
	}

	observability.GradingRuns().WithLabelValues("graded").Inc()
	s.recordActivity(ctx, actor, submission, result)

	span.SetAttributes(attribute.Float64("grading.total_score", result.TotalScore))
	return dto.NewGradeResponse(submission.ID, result, false, s.now()), nil
}

func (s *gradingService) GradeText(ctx context.Context, payload dto.GradeTextRequest) (dto.GradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.grade_text")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GradeResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		span.SetStatus(codes.Error, "content_empty")
		return dto.GradeResponse{}, ErrContentEmpty
	}

	rubric := dto.ToRubric(payload.Rubric)
	if len(rubric) == 0 {
		rubric = grading.DefaultRubric()
	}

	key := cache.Key(content)
	if cached, ok := s.cachedResult(ctx, key); ok {
		span.SetAttributes(attribute.Bool("grading.cached", true))
		return dto.NewGradeResponse(0, *cached, true, s.now()), nil
	}

	start := s.now()
	result, err := s.engine.Grade(content, rubric)
	observability.GradingDuration().WithLabelValues("engine").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.GradingRuns().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading_failed")
		return dto.GradeResponse{}, err
	}

	if err := s.results.PutGrading(ctx, key, result); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache grading result")
	}

	observability.GradingRuns().WithLabelValues("graded").Inc()
	return dto.NewGradeResponse(0, result, false, s.now()), nil
}

// BatchGrade grades submissions concurrently. Individual failures are
// reported per submission and never abort the batch.
func (s *gradingService) BatchGrade(ctx context.Context, payload dto.BatchGradeRequest, actor ActivityActor) (dto.BatchGradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.batch_grade", trace.WithAttributes(
		attribute.Int("grading.batch_size", len(payload.SubmissionIDs)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.BatchGradeResponse{}, err
	}

	var (
		mu       sync.Mutex
		response dto.BatchGradeResponse
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(batchGradeConcurrency)

	for _, id := range payload.SubmissionIDs {
		submissionID := id
		group.Go(func() error {
			graded, err := s.Grade(groupCtx, submissionID, dto.GradeRequest{}, actor)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				response.Failed = append(response.Failed, dto.BatchGradeFailure{
					SubmissionID: submissionID,
					Error:        err.Error(),
				})
				return nil
			}
			response.Graded = append(response.Graded, graded)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		span.RecordError(err)
		return dto.BatchGradeResponse{}, err
	}

	span.SetAttributes(
		attribute.Int("grading.batch_graded", len(response.Graded)),
		attribute.Int("grading.batch_failed", len(response.Failed)),
	)
	return response, nil
}

func (s *gradingService) cachedResult(ctx context.Context, key string) (*grading.Result, bool) {
	entry, ok, err := s.results.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read result cache")
		observability.ResultCacheLookups().WithLabelValues("grading", "error").Inc()
		return nil, false
	}
	if !ok || entry.Grading == nil {
		observability.ResultCacheLookups().WithLabelValues("grading", "miss").Inc()
		return nil, false
	}

	observability.ResultCacheLookups().WithLabelValues("grading", "hit").Inc()
	return entry.Grading, true
}

// applyReview lets the optional AI reviewer adjust the engine grade. Reviewer
// failures are logged and the engine grade stands.
func (s *gradingService) applyReview(ctx context.Context, submission models.Submission, result grading.Result) grading.Result {
	if s.reviewer == nil || result.TooShort {
		return result
	}

	review, err := s.reviewer.Review(ctx, ai.ReviewInput{
		AssignmentTitle: submission.Assignment.Title,
		AssignmentBrief: submission.Assignment.Description,
		Essay:           submission.Content,
		EngineScore:     result.TotalScore,
		EngineFeedback:  result.Feedback,
	})
	if err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("ai review failed, keeping engine grade")
		return result
	}

	if review.Verdict != "adjust" {
		return result
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Float64("engine_score", result.TotalScore).
		Float64("review_score", review.Score).
		Msg("ai reviewer adjusted grade")

	result.TotalScore = review.Score
	if review.Feedback != "" {
		result.Feedback = result.Feedback + "\n\nReviewer note: " + review.Feedback
	}
	return result
}

func (s *gradingService) persistGrade(ctx context.Context, submission *models.Submission, result grading.Result, cached bool) error {
	grade := result.TotalScore
	gradedAt := s.now()

	submission.Grade = &grade
	submission.Feedback = result.Feedback
	submission.Status = models.SubmissionStatusGraded
	submission.GradedAt = &gradedAt
	submission.WordCount = result.WordCount
	if submission.ContentHash == "" {
		submission.ContentHash = cache.Key(submission.Content)
	}

	if err := s.submissions.Update(ctx, submission); err != nil {
		return err
	}

	if cached {
		return nil
	}

	criteria := datatypes.JSONMap{}
	for name, criterion := range result.Criteria {
		criteria[name] = map[string]interface{}{
			"score":     criterion.Score,
			"max_score": criterion.MaxScore,
		}
	}

	gradedBy := models.GraderEngine
	if s.reviewer != nil {
		gradedBy = models.GraderReviewer
	}

	entry := models.GradingHistory{
		SubmissionID: submission.ID,
		Score:        result.TotalScore,
		Feedback:     result.Feedback,
		Confidence:   result.Confidence,
		GradedBy:     gradedBy,
		Criteria:     criteria,
		GradedAt:     gradedAt,
	}
	if err := s.history.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to persist grading history")
	}

	return nil
}

func (s *gradingService) recordActivity(ctx context.Context, actor ActivityActor, submission models.Submission, result grading.Result) {
	if s.activity == nil {
		return
	}

	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "submission.graded",
		EntityType: "submission",
		EntityID:   &submission.ID,
		Metadata: map[string]interface{}{
			"submission_id": submission.ID,
			"student_id":    submission.StudentID,
			"assignment_id": submission.AssignmentID,
			"score":         result.TotalScore,
			"confidence":    result.Confidence,
			"word_count":    result.WordCount,
		},
	})
}
