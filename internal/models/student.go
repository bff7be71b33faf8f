package models

import "time"

// Student represents a learner that can submit essays for grading.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Status    string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// StudentStatusActive marks students that appear in analytics counts.
	StudentStatusActive = "active"
	// StudentStatusInactive marks students excluded from analytics counts.
	StudentStatusInactive = "inactive"
)
