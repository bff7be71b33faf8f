package ai

import "context"

// ReviewInput contains everything the reviewer needs to second-guess an
// automated essay grade.
type ReviewInput struct {
	AssignmentTitle string
	AssignmentBrief string
	Essay           string
	EngineScore     float64
	EngineFeedback  string
	RubricSummary   string
}

// ReviewResult is the structured verdict returned by the AI reviewer.
type ReviewResult struct {
	Score    float64                `json:"score"`
	Feedback string                 `json:"feedback"`
	Verdict  string                 `json:"verdict"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// Reviewer describes an AI model capable of reviewing essay grades.
type Reviewer interface {
	Review(ctx context.Context, input ReviewInput) (ReviewResult, error)
}
