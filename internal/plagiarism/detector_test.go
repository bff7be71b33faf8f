package plagiarism

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const essayBody = `Renewable energy has become a central topic in modern policy debates. Solar installations require significant upfront investment, yet they deliver electricity with almost no marginal cost afterwards. Critics argue that intermittent generation threatens grid stability, but battery prices keep falling. Overall the evidence suggests renewable policy deserves sustained support despite short-term costs.`

func testDetector() *Detector {
	return NewDetector(DefaultConfig(), zerolog.Nop())
}

func TestCheckIdenticalCrossSubmission(t *testing.T) {
	report := testDetector().Check(essayBody, nil, []Comparison{
		{SubmissionID: 7, StudentID: 2, Content: essayBody},
	})

	require.True(t, report.Suspicious)
	require.NotEmpty(t, report.MatchedSources)
	require.Greater(t, report.SimilarityScore, 40.0)
	require.Len(t, report.Matches, 1)
	require.Equal(t, uint(7), report.Matches[0].SubmissionID)
	require.Equal(t, uint(2), report.Matches[0].StudentID)
	require.NotEmpty(t, report.Matches[0].Excerpt)
}

func TestCheckSelfPlagiarism(t *testing.T) {
	report := testDetector().Check(essayBody, []Comparison{
		{SubmissionID: 3, StudentID: 1, Content: essayBody},
	}, nil)

	require.True(t, report.Suspicious)
	require.Contains(t, report.MatchedSources[0], "Previous submission")
	require.Greater(t, report.SimilarityScore, 30.0)
}

func TestCheckNoComparisonSetUsesFallback(t *testing.T) {
	report := testDetector().Check(essayBody, nil, nil)

	require.True(t, report.InternalFallback)
	require.False(t, report.Suspicious)
	require.Empty(t, report.MatchedSources)
	require.LessOrEqual(t, report.SimilarityScore, 15.0)
}

func TestCheckRepetitiveContentFallbackCapped(t *testing.T) {
	repetitive := strings.Repeat("the same four words repeat here endlessly over and over again ", 20)
	report := testDetector().Check(repetitive, nil, nil)

	require.True(t, report.InternalFallback)
	require.LessOrEqual(t, report.SimilarityScore, 15.0)
	require.Greater(t, report.SimilarityScore, 0.0)
}

func TestCheckTooShortContent(t *testing.T) {
	report := testDetector().Check("Tiny text.", nil, []Comparison{
		{SubmissionID: 1, StudentID: 1, Content: essayBody},
	})

	require.False(t, report.Suspicious)
	require.Zero(t, report.SimilarityScore)
	require.Equal(t, "Content too short for analysis", report.Analysis)
}

func TestCheckUnrelatedPeersNotSuspicious(t *testing.T) {
	peer := `The museum opened a new exhibit about deep sea creatures last month. Visitors can watch live feeds from submersible cameras placed along the ocean floor. Ticket sales fund further marine research expeditions each year.`

	report := testDetector().Check(essayBody, nil, []Comparison{
		{SubmissionID: 9, StudentID: 4, Content: peer},
	})

	require.False(t, report.Suspicious)
	require.Empty(t, report.Matches)
	require.Contains(t, report.Analysis, "No significant plagiarism indicators")
}

func TestPatternSegmentsFlagFormalRegister(t *testing.T) {
	formal := strings.TrimSpace(strings.Repeat(
		"Furthermore, according to the established literature, the outcome is therefore considered definitive by scholars. ", 7))

	report := testDetector().Check(formal, nil, nil)

	require.True(t, report.Suspicious)
	require.NotEmpty(t, report.SuspiciousSegments)
	require.LessOrEqual(t, len(report.SuspiciousSegments), 5)
}

func TestScoreAuthorship(t *testing.T) {
	detector := testDetector()

	machine := `Furthermore, the analysis demonstrates significant outcomes. Moreover, the results indicate consistent patterns across domains. First, the data was collected systematically. Second, the models were trained thoroughly. Third, the evaluation followed standard protocols. Finally, in conclusion, the findings support the hypothesis.`
	result := detector.ScoreAuthorship(machine)
	require.True(t, result.Flagged)
	require.Greater(t, result.Score, 0.6)

	personal := "I think the essay went well. Personally, I believe my argument about the game was fun to write!"
	human := detector.ScoreAuthorship(personal)
	require.False(t, human.Flagged)
}
