package plagiarism

import (
	"strings"

	"github.com/gradelens/gradelens-api/internal/textstat"
)

// AuthorshipIndicators are the individual stylistic signals feeding the
// AI-authorship score.
type AuthorshipIndicators struct {
	RepetitiveVocabulary bool `json:"repetitive_phrases"`
	FormalLanguage       bool `json:"overly_formal"`
	UniformStructure     bool `json:"perfect_structure"`
	NoPersonalVoice      bool `json:"lack_of_personal_voice"`
	GenericTransitions   bool `json:"generic_transitions"`
}

// AuthorshipResult is the outcome of the AI-authorship heuristic.
type AuthorshipResult struct {
	Score         float64              `json:"ai_confidence"`
	Flagged       bool                 `json:"is_ai_generated"`
	Indicators    AuthorshipIndicators `json:"indicators"`
	IndicatorHits int                  `json:"indicator_hits"`
}

var formalWords = []string{"furthermore", "moreover", "consequently", "therefore", "thus"}

var personalPhrases = []string{"i think", "i believe", "in my opinion", "personally"}

var genericTransitions = []string{"first", "second", "third", "finally", "in conclusion"}

// ScoreAuthorship estimates the likelihood that content is AI-generated by
// averaging five independent stylistic indicators into a 0-1 score. The
// result is flagged when the score exceeds the configured threshold. This is
// an optional signal; callers decide whether to consume it.
func (d *Detector) ScoreAuthorship(content string) AuthorshipResult {
	lower := strings.ToLower(content)
	words := strings.Fields(lower)

	var indicators AuthorshipIndicators
	hits := 0

	if len(words) > 0 {
		unique := stringSet(words)
		if float64(len(unique))/float64(len(words)) < 0.7 {
			indicators.RepetitiveVocabulary = true
			hits++
		}
	}

	for _, word := range formalWords {
		if strings.Contains(lower, word) {
			indicators.FormalLanguage = true
			hits++
			break
		}
	}

	sentences := textstat.Sentences(content)
	if len(sentences) > 5 {
		uniform := true
		for _, sentence := range sentences {
			if len(strings.Fields(sentence)) <= 5 {
				uniform = false
				break
			}
		}
		if uniform {
			indicators.UniformStructure = true
			hits++
		}
	}

	personal := false
	for _, phrase := range personalPhrases {
		if strings.Contains(lower, phrase) {
			personal = true
			break
		}
	}
	if !personal {
		indicators.NoPersonalVoice = true
		hits++
	}

	transitions := 0
	for _, transition := range genericTransitions {
		if strings.Contains(lower, transition) {
			transitions++
		}
	}
	if transitions > 2 {
		indicators.GenericTransitions = true
		hits++
	}

	score := float64(hits) / 5

	return AuthorshipResult{
		Score:         score,
		Flagged:       score > d.cfg.AIScoreThreshold,
		Indicators:    indicators,
		IndicatorHits: hits,
	}
}
