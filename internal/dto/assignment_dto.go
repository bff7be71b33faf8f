package dto

import (
	"time"

	"github.com/gradelens/gradelens-api/internal/grading"
	"github.com/gradelens/gradelens-api/internal/models"
)

// RubricCriterionRequest describes one rubric criterion in API payloads.
type RubricCriterionRequest struct {
	MaxPoints float64 `json:"max_points" validate:"required,gt=0"`
	MinWords  int     `json:"min_words" validate:"omitempty,gte=0"`
	Weight    float64 `json:"weight" validate:"omitempty,gte=0"`
}

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	Title       string                            `json:"title" validate:"required,min=3"`
	Description string                            `json:"description" validate:"required,min=10"`
	DueDate     string                            `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Rubric      map[string]RubricCriterionRequest `json:"rubric" validate:"omitempty,dive"`
}

// AssignmentUpdateRequest describes the payload for updating an assignment.
type AssignmentUpdateRequest struct {
	Title       *string                           `json:"title" validate:"omitempty,min=3"`
	Description *string                           `json:"description" validate:"omitempty,min=10"`
	DueDate     *string                           `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Rubric      map[string]RubricCriterionRequest `json:"rubric" validate:"omitempty,dive"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID          uint                       `json:"id"`
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	DueDate     time.Time                  `json:"due_date"`
	Rubric      map[string]RubricCriterion `json:"rubric,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// RubricCriterion mirrors the stored rubric criterion in responses.
type RubricCriterion struct {
	MaxPoints float64 `json:"max_points"`
	MinWords  int     `json:"min_words,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

// ToRubric converts request criteria into the grading engine's rubric type.
func ToRubric(criteria map[string]RubricCriterionRequest) grading.Rubric {
	rubric := make(grading.Rubric, len(criteria))
	for name, criterion := range criteria {
		rubric[name] = grading.Criterion{
			MaxPoints: criterion.MaxPoints,
			MinWords:  criterion.MinWords,
			Weight:    criterion.Weight,
		}
	}

	return rubric
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if rubric, err := model.RubricCriteria(); err == nil && len(rubric) > 0 {
		criteria := make(map[string]RubricCriterion, len(rubric))
		for name, criterion := range rubric {
			criteria[name] = RubricCriterion{
				MaxPoints: criterion.MaxPoints,
				MinWords:  criterion.MinWords,
				Weight:    criterion.Weight,
			}
		}
		response.Rubric = criteria
	}

	return response
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
