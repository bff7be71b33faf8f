package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/gradelens/gradelens-api/internal/grading"
)

// Assignment represents an essay assignment with its grading rubric.
type Assignment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	DueDate     time.Time      `gorm:"not null" json:"due_date"`
	Rubric      datatypes.JSON `gorm:"type:json" json:"rubric"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Submissions []Submission   `json:"-"`
}

// RubricCriteria decodes the stored rubric into typed criteria.
// Assignments without a rubric return an empty map so callers can
// fall back to a default rubric.
func (a Assignment) RubricCriteria() (grading.Rubric, error) {
	if len(a.Rubric) == 0 {
		return grading.Rubric{}, nil
	}

	var rubric grading.Rubric
	if err := json.Unmarshal(a.Rubric, &rubric); err != nil {
		return nil, err
	}

	return rubric, nil
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
