package dto

import (
	"time"

	"github.com/gradelens/gradelens-api/internal/grading"
)

// GradeRequest triggers grading for a stored submission.
type GradeRequest struct {
	Rubric map[string]RubricCriterionRequest `json:"rubric" validate:"omitempty,dive"`
}

// GradeTextRequest grades ad-hoc essay text without persisting a submission.
type GradeTextRequest struct {
	Content string                            `json:"content" validate:"required,min=1"`
	Rubric  map[string]RubricCriterionRequest `json:"rubric" validate:"omitempty,dive"`
}

// BatchGradeRequest grades several stored submissions in one call.
type BatchGradeRequest struct {
	SubmissionIDs []uint `json:"submission_ids" validate:"required,min=1,max=50,dive,gt=0"`
}

// CriterionResultResponse serializes a single criterion evaluation.
type CriterionResultResponse struct {
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Feedback   string  `json:"feedback"`
}

// GradeResponse serializes a full grading result.
type GradeResponse struct {
	SubmissionID     uint                               `json:"submission_id,omitempty"`
	TotalScore       float64                            `json:"total_score"`
	Criteria         map[string]CriterionResultResponse `json:"criteria"`
	Feedback         string                             `json:"feedback"`
	Strengths        []string                           `json:"strengths"`
	Improvements     []string                           `json:"improvements"`
	Confidence       float64                            `json:"confidence"`
	WordCount        int                                `json:"word_count"`
	SentenceCount    int                                `json:"sentence_count"`
	ReadabilityScore float64                            `json:"readability_score"`
	GradeLevel       float64                            `json:"grade_level"`
	TooShort         bool                               `json:"too_short,omitempty"`
	Cached           bool                               `json:"cached"`
	GradedAt         time.Time                          `json:"graded_at"`
}

// BatchGradeResponse reports the outcome of a batch grading run.
type BatchGradeResponse struct {
	Graded []GradeResponse     `json:"graded"`
	Failed []BatchGradeFailure `json:"failed,omitempty"`
}

// BatchGradeFailure identifies a submission that could not be graded.
type BatchGradeFailure struct {
	SubmissionID uint   `json:"submission_id"`
	Error        string `json:"error"`
}

// NewGradeResponse converts an engine result into a DTO.
func NewGradeResponse(submissionID uint, result grading.Result, cached bool, gradedAt time.Time) GradeResponse {
	criteria := make(map[string]CriterionResultResponse, len(result.Criteria))
	for name, criterion := range result.Criteria {
		criteria[name] = CriterionResultResponse{
			Score:      criterion.Score,
			MaxScore:   criterion.MaxScore,
			Percentage: criterion.Percentage,
			Feedback:   criterion.Feedback,
		}
	}

	return GradeResponse{
		SubmissionID:     submissionID,
		TotalScore:       result.TotalScore,
		Criteria:         criteria,
		Feedback:         result.Feedback,
		Strengths:        result.Strengths,
		Improvements:     result.Improvements,
		Confidence:       result.Confidence,
		WordCount:        result.WordCount,
		SentenceCount:    result.SentenceCount,
		ReadabilityScore: result.ReadabilityScore,
		GradeLevel:       result.GradeLevel,
		TooShort:         result.TooShort,
		Cached:           cached,
		GradedAt:         gradedAt,
	}
}
