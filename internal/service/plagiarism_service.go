package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gradelens/gradelens-api/internal/cache"
	"github.com/gradelens/gradelens-api/internal/dto"
	"github.com/gradelens/gradelens-api/internal/models"
	"github.com/gradelens/gradelens-api/internal/observability"
	"github.com/gradelens/gradelens-api/internal/plagiarism"
	"github.com/gradelens/gradelens-api/internal/repository"
)

// ErrReportNotFound indicates no originality report exists for the submission.
var ErrReportNotFound = errors.New("plagiarism report not found")

// degradedConfidenceFactor discounts confidence when comparison sets could
// not be fetched before the deadline and the check ran against empty sets.
const degradedConfidenceFactor = 0.75

// PlagiarismService runs originality checks for submissions and ad-hoc text.
type PlagiarismService interface {
	CheckSubmission(ctx context.Context, submissionID uint, actor ActivityActor) (dto.PlagiarismReportResponse, error)
	CheckText(ctx context.Context, payload dto.PlagiarismCheckRequest) (dto.PlagiarismReportResponse, error)
	GetReport(ctx context.Context, submissionID uint) (dto.PlagiarismReportResponse, error)
}

type plagiarismService struct {
	submissions       repository.SubmissionRepository
	reports           repository.PlagiarismReportRepository
	detector          *plagiarism.Detector
	results           cache.Store
	nats              *nats.Conn
	natsSubject       string
	validator         *validator.Validate
	activity          ActivityRecorder
	sanitizer         *bluemonday.Policy
	logger            zerolog.Logger
	tracer            trace.Tracer
	comparisonTimeout time.Duration
	historyLimit      int
	now               func() time.Time
}

// PlagiarismServiceOptions bundles the tunables and optional integrations.
type PlagiarismServiceOptions struct {
	NATS              *nats.Conn
	NATSSubject       string
	ComparisonTimeout time.Duration
	HistoryLimit      int
}

// NewPlagiarismService constructs the plagiarism service.
func NewPlagiarismService(
	submissions repository.SubmissionRepository,
	reports repository.PlagiarismReportRepository,
	detector *plagiarism.Detector,
	results cache.Store,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
	opts PlagiarismServiceOptions,
) PlagiarismService {
	if opts.ComparisonTimeout <= 0 {
		opts.ComparisonTimeout = 5 * time.Second
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}

	return &plagiarismService{
		submissions:       submissions,
		reports:           reports,
		detector:          detector,
		results:           results,
		nats:              opts.NATS,
		natsSubject:       opts.NATSSubject,
		validator:         validate,
		activity:          activity,
		sanitizer:         bluemonday.StrictPolicy(),
		logger:            logger.With().Str("component", "plagiarism_service").Logger(),
		tracer:            otel.Tracer("github.com/gradelens/gradelens-api/internal/service/plagiarism"),
		comparisonTimeout: opts.ComparisonTimeout,
		historyLimit:      opts.HistoryLimit,
		now:               time.Now,
	}
}

func (s *plagiarismService) CheckSubmission(ctx context.Context, submissionID uint, actor ActivityActor) (dto.PlagiarismReportResponse, error) {
	ctx, span := s.tracer.Start(ctx, "plagiarism.check", trace.WithAttributes(
		attribute.Int64("plagiarism.submission_id", int64(submissionID)),
	))
	defer span.End()

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.PlagiarismReportResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.PlagiarismReportResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(submission.Content))
	if content == "" {
		span.SetStatus(codes.Error, "content_empty")
		return dto.PlagiarismReportResponse{}, ErrContentEmpty
	}

	key := cache.Key(content)
	if cached, ok := s.cachedReport(ctx, key); ok {
		span.SetAttributes(attribute.Bool("plagiarism.cached", true))
		authorship := s.detector.ScoreAuthorship(content)
		return dto.NewPlagiarismReportResponse(submission.ID, *cached, &authorship, s.now()), nil
	}

	prior, peers, degraded := s.comparisonSets(ctx, submission)

	report := s.detector.Check(content, prior, peers)
	if degraded {
		report.Confidence = round2(report.Confidence * degradedConfidenceFactor)
		report.InternalFallback = true
		span.SetAttributes(attribute.Bool("plagiarism.degraded", true))
	}

	authorship := s.detector.ScoreAuthorship(content)

	checkedAt := s.now()
	if err := s.persistReport(ctx, submission.ID, report, authorship, checkedAt); err != nil {
		span.RecordError(err)
		return dto.PlagiarismReportResponse{}, err
	}

	if report.Suspicious {
		submission.Status = models.SubmissionStatusFlagged
		if err := s.submissions.Update(ctx, &submission); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to flag submission")
		}
	}

	if err := s.results.PutPlagiarism(ctx, key, report); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache plagiarism report")
	}

	s.publishEvent(submission, report, checkedAt)
	s.recordCheck(ctx, actor, submission, report)

	verdict := "clear"
	if report.Suspicious {
		verdict = "suspicious"
	}
	observability.PlagiarismChecks().WithLabelValues(verdict).Inc()

	span.SetAttributes(
		attribute.Float64("plagiarism.similarity_score", report.SimilarityScore),
		attribute.Bool("plagiarism.suspicious", report.Suspicious),
	)
	return dto.NewPlagiarismReportResponse(submission.ID, report, &authorship, checkedAt), nil
}

func (s *plagiarismService) CheckText(ctx context.Context, payload dto.PlagiarismCheckRequest) (dto.PlagiarismReportResponse, error) {
	ctx, span := s.tracer.Start(ctx, "plagiarism.check_text")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.PlagiarismReportResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		span.SetStatus(codes.Error, "content_empty")
		return dto.PlagiarismReportResponse{}, ErrContentEmpty
	}

	peers := make([]plagiarism.Comparison, 0, len(payload.Sources))
	for idx, source := range payload.Sources {
		peers = append(peers, plagiarism.Comparison{
			SubmissionID: uint(idx + 1),
			Content:      source,
		})
	}

	report := s.detector.Check(content, nil, peers)
	authorship := s.detector.ScoreAuthorship(content)

	verdict := "clear"
	if report.Suspicious {
		verdict = "suspicious"
	}
	observability.PlagiarismChecks().WithLabelValues(verdict).Inc()

	return dto.NewPlagiarismReportResponse(0, report, &authorship, s.now()), nil
}

func (s *plagiarismService) GetReport(ctx context.Context, submissionID uint) (dto.PlagiarismReportResponse, error) {
	report, err := s.reports.GetBySubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PlagiarismReportResponse{}, ErrReportNotFound
		}
		return dto.PlagiarismReportResponse{}, err
	}

	return dto.NewStoredPlagiarismReportResponse(report), nil
}

// comparisonSets fetches the student's prior submissions and the assignment
// peers under a deadline. When the deadline hits, the check proceeds with
// whatever could not be fetched left empty and the confidence discounted.
func (s *plagiarismService) comparisonSets(ctx context.Context, submission models.Submission) (prior, peers []plagiarism.Comparison, degraded bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.comparisonTimeout)
	defer cancel()

	priorModels, err := s.submissions.ListPriorByStudent(fetchCtx, submission.StudentID, submission.ID, s.historyLimit)
	if err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to fetch prior submissions")
		return nil, nil, true
	}

	peerModels, err := s.submissions.ListAssignmentPeers(fetchCtx, submission.AssignmentID, submission.StudentID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to fetch assignment peers")
		return nil, nil, true
	}

	return toComparisons(priorModels), toComparisons(peerModels), false
}

func toComparisons(submissions []models.Submission) []plagiarism.Comparison {
	comparisons := make([]plagiarism.Comparison, 0, len(submissions))
	for _, submission := range submissions {
		comparisons = append(comparisons, plagiarism.Comparison{
			SubmissionID: submission.ID,
			StudentID:    submission.StudentID,
			Content:      submission.Content,
		})
	}
	return comparisons
}

func (s *plagiarismService) persistReport(ctx context.Context, submissionID uint, report plagiarism.Report, authorship plagiarism.AuthorshipResult, checkedAt time.Time) error {
	matches, _ := json.Marshal(report.Matches)
	sources, _ := json.Marshal(report.MatchedSources)
	segments, _ := json.Marshal(report.SuspiciousSegments)

	model := models.PlagiarismReport{
		SubmissionID:       submissionID,
		SimilarityScore:    report.SimilarityScore,
		Suspicious:         report.Suspicious,
		ParaphraseDetected: report.ParaphraseDetected,
		Confidence:         report.Confidence,
		AIScore:            authorship.Score,
		AIFlagged:          authorship.Flagged,
		Analysis:           report.Analysis,
		Matches:            datatypes.JSON(matches),
		MatchedSources:     datatypes.JSON(sources),
		SuspiciousSegments: datatypes.JSON(segments),
		InternalFallback:   report.InternalFallback,
		CheckedAt:          checkedAt,
	}

	return s.reports.Upsert(ctx, &model)
}

type plagiarismEvent struct {
	SubmissionID    uint      `json:"submission_id"`
	StudentID       uint      `json:"student_id"`
	AssignmentID    uint      `json:"assignment_id"`
	SimilarityScore float64   `json:"similarity_score"`
	Suspicious      bool      `json:"suspicious"`
	CheckedAt       time.Time `json:"checked_at"`
}

func (s *plagiarismService) publishEvent(submission models.Submission, report plagiarism.Report, checkedAt time.Time) {
	if s.nats == nil || s.natsSubject == "" {
		return
	}

	payload, err := json.Marshal(plagiarismEvent{
		SubmissionID:    submission.ID,
		StudentID:       submission.StudentID,
		AssignmentID:    submission.AssignmentID,
		SimilarityScore: report.SimilarityScore,
		Suspicious:      report.Suspicious,
		CheckedAt:       checkedAt,
	})
	if err != nil {
		return
	}

	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish plagiarism event")
	}
}

func (s *plagiarismService) recordCheck(ctx context.Context, actor ActivityActor, submission models.Submission, report plagiarism.Report) {
	if s.activity == nil {
		return
	}

	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "submission.plagiarism_checked",
		EntityType: "submission",
		EntityID:   &submission.ID,
		Metadata: map[string]interface{}{
			"submission_id":    submission.ID,
			"student_id":       submission.StudentID,
			"assignment_id":    submission.AssignmentID,
			"similarity_score": report.SimilarityScore,
			"suspicious":       report.Suspicious,
		},
	})
}

func (s *plagiarismService) cachedReport(ctx context.Context, key string) (*plagiarism.Report, bool) {
	entry, ok, err := s.results.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read result cache")
		observability.ResultCacheLookups().WithLabelValues("plagiarism", "error").Inc()
		return nil, false
	}
	if !ok || entry.Plagiarism == nil {
		observability.ResultCacheLookups().WithLabelValues("plagiarism", "miss").Inc()
		return nil, false
	}

	observability.ResultCacheLookups().WithLabelValues("plagiarism", "hit").Inc()
	return entry.Plagiarism, true
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
