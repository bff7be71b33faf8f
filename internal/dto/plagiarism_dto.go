package dto

import (
	"encoding/json"
	"time"

	"github.com/gradelens/gradelens-api/internal/models"
	"github.com/gradelens/gradelens-api/internal/plagiarism"
)

// PlagiarismCheckRequest checks ad-hoc essay text against provided sources.
type PlagiarismCheckRequest struct {
	Content string   `json:"content" validate:"required,min=1"`
	Sources []string `json:"sources" validate:"omitempty,max=50"`
}

// PlagiarismMatchResponse serializes one similar submission match.
type PlagiarismMatchResponse struct {
	ComparedSubmissionID uint    `json:"compared_submission_id"`
	ComparedStudentID    uint    `json:"compared_student_id"`
	Similarity           float64 `json:"similarity"`
	Excerpt              string  `json:"excerpt"`
}

// AuthorshipResponse serializes the AI-authorship heuristic outcome.
type AuthorshipResponse struct {
	Score         float64         `json:"score"`
	Flagged       bool            `json:"flagged"`
	IndicatorHits int             `json:"indicator_hits"`
	Indicators    map[string]bool `json:"indicators"`
}

// PlagiarismReportResponse serializes a full originality report.
type PlagiarismReportResponse struct {
	SubmissionID       uint                      `json:"submission_id,omitempty"`
	SimilarityScore    float64                   `json:"similarity_score"`
	Suspicious         bool                      `json:"suspicious"`
	ParaphraseDetected bool                      `json:"paraphrase_detected"`
	Confidence         float64                   `json:"confidence"`
	Analysis           string                    `json:"analysis"`
	Matches            []PlagiarismMatchResponse `json:"matches,omitempty"`
	MatchedSources     []string                  `json:"matched_sources,omitempty"`
	SuspiciousSegments []string                  `json:"suspicious_segments,omitempty"`
	InternalFallback   bool                      `json:"internal_fallback"`
	Authorship         *AuthorshipResponse       `json:"authorship,omitempty"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// NewPlagiarismReportResponse converts a detector report into a DTO.
func NewPlagiarismReportResponse(submissionID uint, report plagiarism.Report, authorship *plagiarism.AuthorshipResult, checkedAt time.Time) PlagiarismReportResponse {
	response := PlagiarismReportResponse{
		SubmissionID:       submissionID,
		SimilarityScore:    report.SimilarityScore,
		Suspicious:         report.Suspicious,
		ParaphraseDetected: report.ParaphraseDetected,
		Confidence:         report.Confidence,
		Analysis:           report.Analysis,
		MatchedSources:     report.MatchedSources,
		SuspiciousSegments: report.SuspiciousSegments,
		InternalFallback:   report.InternalFallback,
		CheckedAt:          checkedAt,
	}

	for _, match := range report.Matches {
		response.Matches = append(response.Matches, PlagiarismMatchResponse{
			ComparedSubmissionID: match.SubmissionID,
			ComparedStudentID:    match.StudentID,
			Similarity:           match.Similarity,
			Excerpt:              match.Excerpt,
		})
	}

	if authorship != nil {
		response.Authorship = &AuthorshipResponse{
			Score:         authorship.Score,
			Flagged:       authorship.Flagged,
			IndicatorHits: authorship.IndicatorHits,
			Indicators: map[string]bool{
				"repetitive_phrases":     authorship.Indicators.RepetitiveVocabulary,
				"overly_formal":          authorship.Indicators.FormalLanguage,
				"perfect_structure":      authorship.Indicators.UniformStructure,
				"lack_of_personal_voice": authorship.Indicators.NoPersonalVoice,
				"generic_transitions":    authorship.Indicators.GenericTransitions,
			},
		}
	}

	return response
}

// NewStoredPlagiarismReportResponse converts a persisted report row into a DTO.
func NewStoredPlagiarismReportResponse(model models.PlagiarismReport) PlagiarismReportResponse {
	response := PlagiarismReportResponse{
		SubmissionID:       model.SubmissionID,
		SimilarityScore:    model.SimilarityScore,
		Suspicious:         model.Suspicious,
		ParaphraseDetected: model.ParaphraseDetected,
		Confidence:         model.Confidence,
		Analysis:           model.Analysis,
		InternalFallback:   model.InternalFallback,
		CheckedAt:          model.CheckedAt,
	}

	if len(model.Matches) > 0 {
		_ = json.Unmarshal(model.Matches, &response.Matches)
	}
	if len(model.MatchedSources) > 0 {
		_ = json.Unmarshal(model.MatchedSources, &response.MatchedSources)
	}
	if len(model.SuspiciousSegments) > 0 {
		_ = json.Unmarshal(model.SuspiciousSegments, &response.SuspiciousSegments)
	}

	return response
}
