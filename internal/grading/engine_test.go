package grading

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const sampleEssay = `Renewable energy has become a central topic in modern policy debates because nations must balance economic growth with environmental responsibility in the coming decades.

Solar power illustrates this tension clearly. For example, photovoltaic installations require significant upfront investment, yet they deliver electricity with almost no marginal cost afterwards. According to recent industry surveys (Smith 2019), the price of solar modules has fallen dramatically over the past decade. Therefore, many governments now subsidize residential panels to accelerate adoption.

In contrast, critics argue that intermittent generation threatens grid stability. Because the sun does not always shine, utilities must maintain backup capacity or invest in storage technology. Should policymakers force consumers to carry that additional expense? Studies indicate that battery prices are falling as well, which weakens the strongest objection.

Overall, the evidence suggests that renewable energy policy deserves sustained public support despite its genuine short-term costs.`

func testEngine() *Engine {
	return NewEngine(DefaultConfig(), zerolog.Nop())
}

func essayRubric() Rubric {
	return Rubric{
		"content":   {MaxPoints: 30, MinWords: 100},
		"structure": {MaxPoints: 25},
		"grammar":   {MaxPoints: 20},
		"argument":  {MaxPoints: 25},
	}
}

func TestGradeEssayScenario(t *testing.T) {
	result, err := testEngine().Grade(sampleEssay, essayRubric())
	require.NoError(t, err)

	require.GreaterOrEqual(t, result.TotalScore, 70.0)
	require.LessOrEqual(t, result.TotalScore, 95.0)
	require.Len(t, result.Criteria, 4)
	require.NotEmpty(t, result.Strengths)
	require.NotEmpty(t, result.Feedback)
	require.Greater(t, result.Confidence, 0.70)
	require.LessOrEqual(t, result.Confidence, 0.98)
	require.False(t, result.TooShort)
}

func TestGradeTotalScoreBounds(t *testing.T) {
	contents := []string{
		sampleEssay,
		strings.Repeat("word ", 400),
		"This short paragraph has exactly enough characters to be analyzed properly.",
	}
	for _, content := range contents {
		result, err := testEngine().Grade(content, essayRubric())
		require.NoError(t, err)
		require.GreaterOrEqual(t, result.TotalScore, 0.0)
		require.LessOrEqual(t, result.TotalScore, 100.0)
	}
}

func TestGradeSingleCriterionEqualsPercentage(t *testing.T) {
	result, err := testEngine().Grade(sampleEssay, Rubric{"grammar": {MaxPoints: 40}})
	require.NoError(t, err)
	require.InDelta(t, result.Criteria["grammar"].Percentage, result.TotalScore, 0.11)
}

func TestGradeTooShortContent(t *testing.T) {
	result, err := testEngine().Grade("Too short here.", essayRubric())
	require.NoError(t, err)
	require.Zero(t, result.TotalScore)
	require.True(t, result.TooShort)
	require.Contains(t, result.Feedback, "too short")
	require.Empty(t, result.Criteria)
}

func TestGradeEmptyRubric(t *testing.T) {
	_, err := testEngine().Grade(sampleEssay, Rubric{})
	require.ErrorIs(t, err, ErrEmptyRubric)
}

func TestGradeExplicitWeightOverridesMaxPoints(t *testing.T) {
	weighted, err := testEngine().Grade(sampleEssay, Rubric{
		"grammar": {MaxPoints: 20, Weight: 80},
		"content": {MaxPoints: 30, MinWords: 100, Weight: 20},
	})
	require.NoError(t, err)

	unweighted, err := testEngine().Grade(sampleEssay, Rubric{
		"grammar": {MaxPoints: 20},
		"content": {MaxPoints: 30, MinWords: 100},
	})
	require.NoError(t, err)

	// Grammar scores higher than content on this essay, so shifting weight
	// toward grammar must raise the total.
	require.Greater(t, weighted.TotalScore, unweighted.TotalScore)
}

func TestConfidenceMonotonicInLength(t *testing.T) {
	shorter, err := testEngine().Grade(sampleEssay, essayRubric())
	require.NoError(t, err)

	longer, err := testEngine().Grade(sampleEssay+"\n\n"+sampleEssay, essayRubric())
	require.NoError(t, err)

	require.GreaterOrEqual(t, longer.Confidence, shorter.Confidence)
}
