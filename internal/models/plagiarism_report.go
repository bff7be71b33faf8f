package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlagiarismReport stores the latest originality check for a submission.
// Each submission keeps exactly one report; rechecks overwrite it.
type PlagiarismReport struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	SubmissionID       uint           `gorm:"not null;uniqueIndex" json:"submission_id"`
	SimilarityScore    float64        `gorm:"not null" json:"similarity_score"`
	Suspicious         bool           `gorm:"not null" json:"suspicious"`
	ParaphraseDetected bool           `json:"paraphrase_detected"`
	Confidence         float64        `json:"confidence"`
	AIScore            float64        `json:"ai_score"`
	AIFlagged          bool           `json:"ai_flagged"`
	Analysis           string         `gorm:"type:text" json:"analysis"`
	Matches            datatypes.JSON `gorm:"type:json" json:"matches"`
	MatchedSources     datatypes.JSON `gorm:"type:json" json:"matched_sources"`
	SuspiciousSegments datatypes.JSON `gorm:"type:json" json:"suspicious_segments"`
	InternalFallback   bool           `json:"internal_fallback"`
	CheckedAt          time.Time      `gorm:"not null" json:"checked_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}
