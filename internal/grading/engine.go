package grading

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gradelens/gradelens-api/internal/textstat"
)

// Engine grades content against rubrics. It is stateless and safe for
// concurrent use.
type Engine struct {
	cfg    Config
	logger zerolog.Logger
}

// NewEngine constructs an Engine with the provided configuration.
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	if cfg.MinContentLength <= 0 {
		cfg.MinContentLength = DefaultConfig().MinContentLength
	}
	if cfg.DefaultMinWords <= 0 {
		cfg.DefaultMinWords = DefaultConfig().DefaultMinWords
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "grading_engine").Logger(),
	}
}

// Grade evaluates content against the rubric and returns an immutable Result.
//
// Content shorter than the minimum analyzable length yields the zero-score
// default result rather than an error. A criterion whose scorer fails is
// skipped and its weight excluded from the total; only an invalid rubric
// produces an error.
func (e *Engine) Grade(content string, rubric Rubric) (Result, error) {
	if err := rubric.Validate(); err != nil {
		return Result{}, err
	}

	if len(strings.TrimSpace(content)) < e.cfg.MinContentLength {
		return e.tooShortResult(content), nil
	}

	names := make([]string, 0, len(rubric))
	for name := range rubric {
		names = append(names, name)
	}
	sort.Strings(names)

	criteria := make(map[string]CriterionResult, len(rubric))
	var totalWeighted, totalWeight float64
	var strengths, improvements []string

	for _, name := range names {
		criterion := rubric[name]
		raw, feedback, err := e.evaluate(name, content, criterion)
		if err != nil {
			e.logger.Warn().Err(err).Str("criterion", name).Msg("criterion scorer failed, excluding from total")
			continue
		}

		raw = clampRange(raw, 0, 100)
		weight := criterion.Weight
		if weight <= 0 {
			weight = criterion.MaxPoints
		}

		scaled := raw / 100 * criterion.MaxPoints
		criteria[name] = CriterionResult{
			Score:      round2(scaled),
			MaxScore:   criterion.MaxPoints,
			Percentage: round1(raw),
			Feedback:   feedback,
		}

		totalWeighted += raw / 100 * weight
		totalWeight += weight

		display := strings.ReplaceAll(name, "_", " ")
		switch {
		case raw >= 85:
			strengths = append(strengths, "Excellent "+display)
		case raw >= 75:
			strengths = append(strengths, "Strong "+display)
		case raw < 60:
			improvements = append(improvements, "Focus on improving "+display)
		}
	}

	totalScore := 0.0
	if totalWeight > 0 {
		totalScore = totalWeighted / totalWeight * 100
	}
	totalScore = clampRange(totalScore, 0, 100)

	wordCount := textstat.WordCount(content)
	sentenceCount := textstat.SentenceCount(content)
	readability := textstat.AnalyzeReadability(content)

	if len(strengths) == 0 && totalScore >= 70 {
		strengths = append(strengths, "Solid foundational understanding")
	}
	if len(improvements) == 0 && totalScore < 95 {
		improvements = append(improvements, "Continue refining writing skills")
	}
	strengths = truncate(strengths, 5)
	improvements = truncate(improvements, 5)

	confidence := e.cfg.ConfidenceBase +
		float64(wordCount)/500*e.cfg.ConfidenceWordFactor +
		float64(sentenceCount)/10*e.cfg.ConfidenceSentenceFactor
	confidence = math.Min(confidence, e.cfg.ConfidenceCap)

	feedback := composeFeedback(totalScore, wordCount, sentenceCount, readability, names, criteria)

	return Result{
		TotalScore:       round2(totalScore),
		Criteria:         criteria,
		Feedback:         feedback,
		Strengths:        strengths,
		Improvements:     improvements,
		Confidence:       round4(confidence),
		WordCount:        wordCount,
		SentenceCount:    sentenceCount,
		ReadabilityScore: round2(readability.FleschEase),
		GradeLevel:       round1(readability.GradeLevel),
	}, nil
}

// evaluate runs the dispatched scorer, converting panics and invalid values
// into criterion failures so a single bad scorer cannot abort the grading.
func (e *Engine) evaluate(name, content string, criterion Criterion) (raw float64, feedback string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("criterion %s: scorer panic: %v", name, r)
		}
	}()

	entry := dispatchFor(name)
	raw, feedback, err = entry.score(e, content, criterion)
	if err != nil {
		return 0, "", fmt.Errorf("criterion %s: %w", name, err)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, "", fmt.Errorf("criterion %s: scorer produced invalid value", name)
	}
	return raw, feedback, nil
}

func (e *Engine) tooShortResult(content string) Result {
	return Result{
		TotalScore:       0,
		Criteria:         map[string]CriterionResult{},
		Feedback:         "Content too short for grading analysis.",
		Improvements:     []string{"Submit a longer response so it can be evaluated."},
		Confidence:       0,
		WordCount:        textstat.WordCount(content),
		SentenceCount:    textstat.SentenceCount(content),
		ReadabilityScore: 0,
		GradeLevel:       0,
		TooShort:         true,
	}
}

func composeFeedback(totalScore float64, wordCount, sentenceCount int, readability textstat.Readability, names []string, criteria map[string]CriterionResult) string {
	parts := []string{
		fmt.Sprintf("Overall Score: %.1f%%", totalScore),
		fmt.Sprintf("Grade Level: %.1f", readability.GradeLevel),
		"",
	}

	switch {
	case totalScore >= 93:
		parts = append(parts, "Outstanding work! Demonstrates exceptional understanding and mastery.")
	case totalScore >= 85:
		parts = append(parts, "Excellent work! Strong performance with minor areas for refinement.")
	case totalScore >= 75:
		parts = append(parts, "Good work overall. Some key areas would benefit from development.")
	case totalScore >= 65:
		parts = append(parts, "Satisfactory. Focus on the improvement areas highlighted below.")
	default:
		parts = append(parts, "Needs significant development. Review the detailed feedback carefully.")
	}

	parts = append(parts,
		"",
		"Statistics:",
		fmt.Sprintf("  - Word Count: %d words", wordCount),
		fmt.Sprintf("  - Sentences: %d", sentenceCount),
		fmt.Sprintf("  - Readability: %.1f (Flesch Reading Ease)", readability.FleschEase),
		fmt.Sprintf("  - Grade Level: %.1f", readability.GradeLevel),
		"",
		"Detailed Criterion Feedback:",
	)

	for _, name := range names {
		result, ok := criteria[name]
		if !ok {
			continue
		}
		display := titleCase(strings.ReplaceAll(name, "_", " "))
		parts = append(parts,
			"",
			display+":",
			fmt.Sprintf("  Score: %.2f/%.0f (%.1f%%)", result.Score, result.MaxScore, result.Percentage),
			"  "+result.Feedback,
		)
	}

	return strings.Join(parts, "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func truncate(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
