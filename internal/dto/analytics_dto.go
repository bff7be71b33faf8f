package dto

import "time"

// AnalyticsSummaryResponse aggregates grading activity for dashboards.
type AnalyticsSummaryResponse struct {
	ActiveStudents      int64            `json:"active_students"`
	SubmissionsByStatus map[string]int64 `json:"submissions_by_status"`
	AverageGrade        float64          `json:"average_grade"`
	SuspiciousReports   int64            `json:"suspicious_reports"`
	GradedLastSevenDays int              `json:"graded_last_seven_days"`
	AverageGradeRecent  float64          `json:"average_grade_recent"`
	GeneratedAt         time.Time        `json:"generated_at"`
	Cached              bool             `json:"cached"`
}
