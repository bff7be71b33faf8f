package plagiarism

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gradelens/gradelens-api/internal/textstat"
)

// Comparison is one prior submission to compare against.
type Comparison struct {
	SubmissionID uint
	StudentID    uint
	Content      string
}

// Match records a flagged similarity against a specific prior submission.
type Match struct {
	SubmissionID uint    `json:"compared_submission_id"`
	StudentID    uint    `json:"compared_student_id"`
	Similarity   float64 `json:"similarity"`
	Excerpt      string  `json:"excerpt"`
}

// Report is the aggregated suspicion verdict for one submission.
type Report struct {
	SimilarityScore    float64  `json:"similarity_score"`
	Suspicious         bool     `json:"is_suspicious"`
	SuspiciousSegments []string `json:"suspicious_segments"`
	MatchedSources     []string `json:"matched_sources"`
	Matches            []Match  `json:"matches"`
	ParaphraseDetected bool     `json:"paraphrase_detected"`
	Confidence         float64  `json:"confidence"`
	Analysis           string   `json:"analysis"`
	InternalFallback   bool     `json:"internal_fallback,omitempty"`
}

// formalIndicatorPatterns mark sentences written in a dense academic
// connective register. Two or more hits in one long sentence flags it as a
// stylistic anomaly, independent of any comparison set.
var formalIndicatorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(therefore|furthermore|moreover|consequently|nevertheless)\b`),
	regexp.MustCompile(`(?i)\b(it can be argued that|research indicates|studies show)\b`),
	regexp.MustCompile(`(?i)\b(according to|as stated by|in accordance with)\b`),
}

// Detector runs the similarity passes and aggregates the verdict. Stateless
// and safe for concurrent use.
type Detector struct {
	cfg    Config
	logger zerolog.Logger
}

// NewDetector constructs a Detector with the provided thresholds.
func NewDetector(cfg Config, logger zerolog.Logger) *Detector {
	if cfg.MinContentLength <= 0 {
		cfg.MinContentLength = DefaultConfig().MinContentLength
	}
	return &Detector{
		cfg:    cfg,
		logger: logger.With().Str("component", "plagiarism_detector").Logger(),
	}
}

// Check compares content against the student's own prior submissions and the
// peers' submissions for the same assignment. Both sets must already exclude
// the submission under test. When both sets are empty the internal-repetition
// fallback provides a low-confidence similarity estimate.
func (d *Detector) Check(content string, prior, peers []Comparison) Report {
	if len(strings.TrimSpace(content)) < d.cfg.MinContentLength {
		return Report{
			SuspiciousSegments: []string{},
			MatchedSources:     []string{},
			Matches:            []Match{},
			Analysis:           "Content too short for analysis",
		}
	}

	var (
		similarityScores   []float64
		matchedSources     []string
		matches            []Match
		paraphraseDetected bool
	)

	for _, previous := range prior {
		seq := SequenceSimilarity(content, previous.Content) * 100
		jac := JaccardSimilarity(content, previous.Content) * 100

		if seq > d.cfg.SelfSequenceThreshold || jac > d.cfg.SelfJaccardThreshold {
			similarity := (seq + jac) / 2
			similarityScores = append(similarityScores, similarity)
			matchedSources = append(matchedSources, fmt.Sprintf("Previous submission (%.1f%% similar)", seq))
			matches = append(matches, Match{
				SubmissionID: previous.SubmissionID,
				StudentID:    previous.StudentID,
				Similarity:   similarity,
				Excerpt:      excerpt(previous.Content),
			})
		}
	}

	for _, peer := range peers {
		seq := SequenceSimilarity(content, peer.Content) * 100
		jac := JaccardSimilarity(content, peer.Content) * 100
		isParaphrase := IsParaphrase(content, peer.Content, d.cfg.ParaphraseThreshold)

		weighted := seq*d.cfg.SequenceWeight + jac*d.cfg.JaccardWeight
		if isParaphrase {
			weighted += seq * d.cfg.ParaphraseWeight
		}

		if weighted > d.cfg.CrossFlagThreshold || isParaphrase {
			similarityScores = append(similarityScores, weighted)
			matches = append(matches, Match{
				SubmissionID: peer.SubmissionID,
				StudentID:    peer.StudentID,
				Similarity:   weighted,
				Excerpt:      excerpt(peer.Content),
			})

			if isParaphrase {
				paraphraseDetected = true
				matchedSources = append(matchedSources, fmt.Sprintf("Potential paraphrasing detected (confidence: %.1f%%)", weighted))
			} else if weighted > d.cfg.HighSimilarityThreshold {
				matchedSources = append(matchedSources, fmt.Sprintf("High similarity with another submission (%.1f%%)", weighted))
			}
		}
	}

	patternSegments := d.patternSegments(content)

	avgSimilarity := 0.0
	internalFallback := false
	if len(similarityScores) > 0 {
		for _, score := range similarityScores {
			avgSimilarity += score
		}
		avgSimilarity /= float64(len(similarityScores))
	} else {
		avgSimilarity = d.repetitionEstimate(content)
		internalFallback = true
	}

	suspicious := avgSimilarity > d.cfg.SuspicionThreshold ||
		len(matchedSources) > 0 ||
		paraphraseDetected ||
		len(patternSegments) > d.cfg.PatternSegmentLimit

	confidence := 0.85 + float64(len(matchedSources))*0.05
	if confidence > 0.99 {
		confidence = 0.99
	}

	segments := patternSegments
	if len(segments) > 5 {
		segments = segments[:5]
	}

	return Report{
		SimilarityScore:    round2(avgSimilarity),
		Suspicious:         suspicious,
		SuspiciousSegments: segments,
		MatchedSources:     matchedSources,
		Matches:            matches,
		ParaphraseDetected: paraphraseDetected,
		Confidence:         round4(confidence),
		Analysis:           composeAnalysis(avgSimilarity, paraphraseDetected, len(patternSegments), suspicious),
		InternalFallback:   internalFallback,
	}
}

// patternSegments returns sentences of at least 50 characters containing two
// or more formal academic connective hits.
func (d *Detector) patternSegments(content string) []string {
	flagged := []string{}
	for _, sentence := range textstat.Sentences(content) {
		if len(sentence) < 50 {
			continue
		}
		hits := 0
		for _, pattern := range formalIndicatorPatterns {
			if pattern.MatchString(sentence) {
				hits++
			}
		}
		if hits >= 2 {
			flagged = append(flagged, sentence)
		}
	}
	return flagged
}

// repetitionEstimate measures internal 4-gram repetition as a low-confidence
// stand-in when no comparison set exists.
func (d *Detector) repetitionEstimate(content string) float64 {
	grams := NGrams(content, 4)
	if len(grams) == 0 {
		return 0
	}
	unique := len(stringSet(grams))
	score := (1 - float64(unique)/float64(len(grams))) * 30
	if score > d.cfg.RepetitionCap {
		score = d.cfg.RepetitionCap
	}
	return score
}

func composeAnalysis(avgSimilarity float64, paraphrase bool, patternCount int, suspicious bool) string {
	var parts []string
	if avgSimilarity > 40 {
		parts = append(parts, "High similarity detected with other submissions")
	}
	if paraphrase {
		parts = append(parts, "Potential paraphrasing detected")
	}
	if patternCount > 3 {
		parts = append(parts, "Multiple segments show academic writing patterns")
	}
	if !suspicious {
		parts = append(parts, "No significant plagiarism indicators detected")
	}
	if len(parts) == 0 {
		return "Analysis complete"
	}
	return strings.Join(parts, ". ")
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= 100 {
		return content
	}
	return string(runes[:100]) + "..."
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
}
