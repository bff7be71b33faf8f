package models

import (
	"time"

	"gorm.io/datatypes"
)

// GradingHistory records every automated evaluation of a submission so
// regrades remain auditable.
type GradingHistory struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	SubmissionID uint              `gorm:"not null;index" json:"submission_id"`
	Score        float64           `gorm:"not null" json:"score"`
	Feedback     string            `gorm:"type:text" json:"feedback"`
	Confidence   float64           `json:"confidence"`
	GradedBy     string            `gorm:"size:32;not null" json:"graded_by"`
	Criteria     datatypes.JSONMap `gorm:"type:json" json:"criteria"`
	GradedAt     time.Time         `gorm:"not null;index" json:"graded_at"`
	CreatedAt    time.Time         `json:"created_at"`
}

const (
	// GraderEngine marks grades produced by the rubric engine.
	GraderEngine = "engine"
	// GraderReviewer marks grades adjusted by the AI second-opinion reviewer.
	GraderReviewer = "reviewer"
)
