package dto

import (
	"time"

	"github.com/gradelens/gradelens-api/internal/models"
)

// SubmissionCreateRequest describes the JSON payload for submitting an essay.
type SubmissionCreateRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required,gt=0"`
	StudentID    uint   `json:"student_id" validate:"required,gt=0"`
	Content      string `json:"content" validate:"required,min=1"`
}

// SubmissionUploadRequest describes the multipart form fields accompanying
// an essay file upload.
type SubmissionUploadRequest struct {
	AssignmentID uint `form:"assignment_id" validate:"required,gt=0"`
	StudentID    uint `form:"student_id" validate:"required,gt=0"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	AssignmentID *uint   `query:"assignment_id"`
	StudentID    *uint   `query:"student_id"`
	Status       *string `query:"status" validate:"omitempty,oneof=submitted graded flagged"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint                     `json:"id"`
	AssignmentID uint                     `json:"assignment_id"`
	StudentID    uint                     `json:"student_id"`
	Content      string                   `json:"content"`
	WordCount    int                      `json:"word_count"`
	Status       string                   `json:"status"`
	Grade        *float64                 `json:"grade"`
	Feedback     string                   `json:"feedback"`
	GradedAt     *time.Time               `json:"graded_at"`
	History      []GradingHistoryResponse `json:"history,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
	Assignment   AssignmentLite           `json:"assignment"`
	Student      StudentLite              `json:"student"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

// GradingHistoryResponse serializes one automated grading entry.
type GradingHistoryResponse struct {
	Score      float64   `json:"score"`
	Feedback   string    `json:"feedback"`
	Confidence float64   `json:"confidence"`
	GradedBy   string    `json:"graded_by"`
	GradedAt   time.Time `json:"graded_at"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Content:      model.Content,
		WordCount:    model.WordCount,
		Status:       model.Status,
		Grade:        model.Grade,
		Feedback:     model.Feedback,
		GradedAt:     model.GradedAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:      model.Assignment.ID,
			Title:   model.Assignment.Title,
			DueDate: model.Assignment.DueDate,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		}
	}

	if len(model.History) > 0 {
		history := make([]GradingHistoryResponse, 0, len(model.History))
		for _, entry := range model.History {
			history = append(history, GradingHistoryResponse{
				Score:      entry.Score,
				Feedback:   entry.Feedback,
				Confidence: entry.Confidence,
				GradedBy:   entry.GradedBy,
				GradedAt:   entry.GradedAt,
			})
		}
		response.History = history
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(models []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
