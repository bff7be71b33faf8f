// Package grading scores free-text submissions against weighted rubrics using
// deterministic heuristics over text statistics.
package grading

import "errors"

// ErrEmptyRubric indicates a rubric with no criteria was supplied.
var ErrEmptyRubric = errors.New("rubric must contain at least one criterion")

// Criterion is a single named grading dimension.
//
// MaxPoints must be positive. MinWords defaults to Config.DefaultMinWords when
// zero. Weight defaults to MaxPoints when zero; it only affects the weighted
// total, never the per-criterion score.
type Criterion struct {
	MaxPoints float64 `json:"max_points" validate:"required,gt=0"`
	MinWords  int     `json:"min_words,omitempty" validate:"omitempty,gte=0"`
	Weight    float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
}

// Rubric maps criterion names to their configuration. Ordering is irrelevant.
type Rubric map[string]Criterion

// DefaultRubric returns the standard essay rubric used when an assignment
// does not define its own.
func DefaultRubric() Rubric {
	return Rubric{
		"content":   {MaxPoints: 30, MinWords: 100},
		"structure": {MaxPoints: 25},
		"grammar":   {MaxPoints: 20},
		"argument":  {MaxPoints: 25},
	}
}

// Validate reports whether the rubric can be graded against.
func (r Rubric) Validate() error {
	if len(r) == 0 {
		return ErrEmptyRubric
	}
	for name, criterion := range r {
		if criterion.MaxPoints <= 0 {
			return errors.New("criterion " + name + " must have positive max_points")
		}
	}
	return nil
}

// CriterionResult is the outcome of scoring one criterion.
type CriterionResult struct {
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Feedback   string  `json:"feedback"`
}

// Result is the full outcome of grading a submission against a rubric.
type Result struct {
	TotalScore       float64                    `json:"total_score"`
	Criteria         map[string]CriterionResult `json:"criteria_scores"`
	Feedback         string                     `json:"feedback"`
	Strengths        []string                   `json:"strengths"`
	Improvements     []string                   `json:"improvements"`
	Confidence       float64                    `json:"confidence"`
	WordCount        int                        `json:"word_count"`
	SentenceCount    int                        `json:"sentence_count"`
	ReadabilityScore float64                    `json:"readability_score"`
	GradeLevel       float64                    `json:"grade_level"`
	TooShort         bool                       `json:"too_short,omitempty"`
}
