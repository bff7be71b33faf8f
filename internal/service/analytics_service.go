package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gradelens/gradelens-api/internal/dto"
	"github.com/gradelens/gradelens-api/internal/repository"
)

const analyticsCacheKey = "analytics:summary"

// AnalyticsService produces aggregated grading metrics for dashboards.
type AnalyticsService interface {
	Summary(ctx context.Context) (dto.AnalyticsSummaryResponse, error)
}

type analyticsService struct {
	repo     repository.AnalyticsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAnalyticsService builds the analytics aggregator. The cache client is
// optional; without it every call hits the database.
func NewAnalyticsService(repo repository.AnalyticsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "analytics_service").Logger(),
		now:      time.Now,
	}
}

func (s *analyticsService) Summary(ctx context.Context) (dto.AnalyticsSummaryResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, analyticsCacheKey).Result(); err == nil {
			var response dto.AnalyticsSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.Cached = true
				s.logger.Debug().Msg("analytics cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
		}
	}

	students, err := s.repo.CountActiveStudents(ctx)
	if err != nil {
		return dto.AnalyticsSummaryResponse{}, err
	}

	statusCounts, err := s.repo.CountSubmissionsByStatus(ctx)
	if err != nil {
		return dto.AnalyticsSummaryResponse{}, err
	}

	average, err := s.repo.AverageGrade(ctx)
	if err != nil {
		return dto.AnalyticsSummaryResponse{}, err
	}

	suspicious, err := s.repo.CountSuspiciousReports(ctx)
	if err != nil {
		return dto.AnalyticsSummaryResponse{}, err
	}

	now := s.now()
	recent, err := s.repo.ListGradedSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return dto.AnalyticsSummaryResponse{}, err
	}

	var recentTotal float64
	var recentGraded int
	for _, submission := range recent {
		if submission.Grade != nil {
			recentTotal += *submission.Grade
			recentGraded++
		}
	}

	response := dto.AnalyticsSummaryResponse{
		ActiveStudents:      students,
		SubmissionsByStatus: statusCounts,
		AverageGrade:        average,
		SuspiciousReports:   suspicious,
		GradedLastSevenDays: len(recent),
		GeneratedAt:         now,
	}
	if recentGraded > 0 {
		response.AverageGradeRecent = recentTotal / float64(recentGraded)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, analyticsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
			}
		}
	}

	return response, nil
}
