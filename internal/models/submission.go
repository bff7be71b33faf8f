package models

import "time"

// Submission represents an essay submitted by a student for an assignment.
type Submission struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	AssignmentID uint             `gorm:"not null;index" json:"assignment_id"`
	StudentID    uint             `gorm:"not null;index" json:"student_id"`
	Content      string           `gorm:"type:text;not null" json:"content"`
	ContentHash  string           `gorm:"size:64;index" json:"content_hash"`
	WordCount    int              `json:"word_count"`
	Status       string           `gorm:"size:32;not null" json:"status"`
	Grade        *float64         `json:"grade"`
	Feedback     string           `gorm:"type:text" json:"feedback"`
	GradedAt     *time.Time       `json:"graded_at"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Assignment   Assignment       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student      Student          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	History      []GradingHistory `gorm:"foreignKey:SubmissionID" json:"-"`
}

const (
	// SubmissionStatusSubmitted indicates the essay is awaiting grading.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusGraded indicates the essay has been evaluated.
	SubmissionStatusGraded = "graded"
	// SubmissionStatusFlagged indicates a plagiarism check marked the essay suspicious.
	SubmissionStatusFlagged = "flagged"
)

// IsGraded reports whether the submission has a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
