package grading

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/gradelens/gradelens-api/internal/textstat"
)

// scorerFunc produces a raw 0-100 score plus feedback for one criterion.
type scorerFunc func(e *Engine, content string, criterion Criterion) (float64, string, error)

// dispatchEntry binds criterion-name keywords to a scoring strategy. The
// table is consulted in order and the first match wins, so earlier categories
// can never be shadowed by later ones.
type dispatchEntry struct {
	category string
	keywords []string
	score    scorerFunc
}

var dispatchTable = []dispatchEntry{
	{category: "content", keywords: []string{"content", "thesis"}, score: (*Engine).scoreContent},
	{category: "grammar", keywords: []string{"grammar", "style", "language"}, score: (*Engine).scoreGrammar},
	{category: "structure", keywords: []string{"structure", "organization"}, score: (*Engine).scoreStructure},
	{category: "argument", keywords: []string{"argument", "analysis", "critical"}, score: (*Engine).scoreArgument},
}

// defaultDispatch handles criterion names that match no category.
var defaultDispatch = dispatchEntry{category: "content", score: (*Engine).scoreContent}

func dispatchFor(name string) dispatchEntry {
	lower := strings.ToLower(name)
	for _, entry := range dispatchTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry
			}
		}
	}
	return defaultDispatch
}

func (e *Engine) scoreContent(content string, criterion Criterion) (float64, string, error) {
	minWords := criterion.MinWords
	if minWords <= 0 {
		minWords = e.cfg.DefaultMinWords
	}

	wordCount := textstat.WordCount(content)
	target := float64(minWords)
	counted := float64(wordCount)

	var lengthScore float64
	switch {
	case counted < target:
		lengthScore = (counted / target) * 0.5
	case counted < target*1.5:
		lengthScore = 0.5 + ((counted-target)/(target*0.5))*0.3
	default:
		lengthScore = 0.8 + math.Min((counted-target*1.5)/(target*2), 0.2)
	}

	vocab := textstat.VocabularyComplexity(content)
	vocabScore := vocab.ComplexityScore / 100

	readability := textstat.AnalyzeReadability(content)
	readabilityScore := clamp01((readability.FleschEase - 30) / 70)

	raw := (lengthScore*e.cfg.LengthWeight + vocabScore*e.cfg.VocabularyWeight + readabilityScore*e.cfg.ReadabilityWeight) * 100

	var notes []string
	if wordCount < minWords {
		notes = append(notes, fmt.Sprintf("Content is too short (%d words). Target: %d+ words.", wordCount, minWords))
	} else if wordCount > minWords*3 {
		notes = append(notes, fmt.Sprintf("Very comprehensive (%d words). Excellent depth.", wordCount))
	}
	if vocab.UniqueWordRatio < 0.4 {
		notes = append(notes, "Limited vocabulary diversity. Use more varied word choices.")
	} else if vocab.AcademicWordCount > 5 {
		notes = append(notes, "Strong use of academic vocabulary.")
	}

	feedback := "Good content quality with strong development."
	if len(notes) > 0 {
		feedback = strings.Join(notes, " ")
	}

	return raw, feedback, nil
}

func (e *Engine) scoreGrammar(content string, _ Criterion) (float64, string, error) {
	sentences := textstat.Sentences(content)
	sentenceCount := len(sentences)

	hasTerminalPunctuation := terminalPunctuationPattern.MatchString(strings.TrimSpace(content))
	repeatedPairs := countImmediateRepeats(content)
	passiveHits := len(passivePattern.FindAllString(content, -1))

	longSentences := 0
	fragments := 0
	capitalized := 0
	for _, sentence := range sentences {
		words := len(strings.Fields(sentence))
		if words > 30 {
			longSentences++
		}
		if words < 5 {
			fragments++
		}
		if startsUppercase(sentence) {
			capitalized++
		}
	}

	capitalizationRatio := 1.0
	if sentenceCount > 0 {
		capitalizationRatio = float64(capitalized) / float64(sentenceCount)
	}

	score := e.cfg.GrammarBaseline
	var notes []string

	if !hasTerminalPunctuation {
		score -= 10
		notes = append(notes, "Missing proper ending punctuation.")
	}
	if repeatedPairs > 0 {
		score -= math.Min(float64(repeatedPairs)*5, 20)
		notes = append(notes, fmt.Sprintf("Found %d repeated words.", repeatedPairs))
	}
	if sentenceCount < 3 {
		score -= 15
		notes = append(notes, "Too few sentences. Expand your ideas.")
	}
	if float64(passiveHits) > float64(sentenceCount)*0.3 {
		score -= 10
		notes = append(notes, "Excessive passive voice. Use more active constructions.")
	}
	if longSentences > 2 {
		score -= 5
		notes = append(notes, "Some sentences are too long. Break them up.")
	}
	if fragments > 1 {
		score -= 10
		notes = append(notes, "Sentence fragments detected. Ensure complete sentences.")
	}
	if capitalizationRatio < 0.9 {
		score -= 5
		notes = append(notes, "Check sentence capitalization.")
	}

	if score < 0 {
		score = 0
	}
	if score >= 85 {
		notes = append([]string{"Strong grammar and style."}, notes...)
	}

	feedback := "Grammar and style are excellent."
	if len(notes) > 0 {
		feedback = strings.Join(notes, " ")
	}

	return score, feedback, nil
}

func (e *Engine) scoreStructure(content string, _ Criterion) (float64, string, error) {
	paragraphs := textstat.Paragraphs(content)
	sentences := textstat.Sentences(content)

	if len(paragraphs) == 0 || len(sentences) == 0 {
		return 0, "No analyzable paragraph structure found.", nil
	}

	paragraphWords := make([]int, len(paragraphs))
	for i, paragraph := range paragraphs {
		paragraphWords[i] = len(strings.Fields(paragraph))
	}

	hasIntroduction := paragraphWords[0] > 20
	hasConclusion := len(paragraphs) > 1 && paragraphWords[len(paragraphs)-1] > 15
	avgSentenceLength := float64(textstat.WordCount(content)) / float64(len(sentences))

	balance := 50.0
	if len(paragraphs) > 1 {
		mean := 0.0
		for _, words := range paragraphWords {
			mean += float64(words)
		}
		mean /= float64(len(paragraphWords))

		variance := 0.0
		for _, words := range paragraphWords {
			variance += (float64(words) - mean) * (float64(words) - mean)
		}
		variance /= float64(len(paragraphWords))
		balance = math.Max(0, 100-variance)
	}

	score := e.cfg.StructureBase
	var notes []string

	if hasIntroduction {
		score += 15
	} else {
		notes = append(notes, "Add a strong introduction paragraph (20+ words).")
	}
	if hasConclusion {
		score += 15
	} else {
		notes = append(notes, "Add a proper conclusion paragraph (15+ words).")
	}

	switch {
	case len(paragraphs) >= 5:
		score += 15
	case len(paragraphs) >= 3:
		score += 10
	case len(paragraphs) >= 2:
		score += 5
	default:
		notes = append(notes, "Organize content into multiple paragraphs (3+ recommended).")
	}

	switch {
	case avgSentenceLength >= 15 && avgSentenceLength <= 25:
		score += 10
	case avgSentenceLength >= 12 && avgSentenceLength <= 30:
		score += 5
	default:
		notes = append(notes, "Balance sentence length (aim for 15-25 words average).")
	}

	if balance > 70 {
		score += 5
		notes = append([]string{"Well-balanced paragraph structure."}, notes...)
	}

	if score > 100 {
		score = 100
	}

	feedback := "Excellent structure and organization."
	if len(notes) > 0 {
		feedback = strings.Join(notes, " ")
	}

	return score, feedback, nil
}

func (e *Engine) scoreArgument(content string, _ Criterion) (float64, string, error) {
	reasoningHits := 0
	for _, pattern := range reasoningPatterns {
		reasoningHits += len(pattern.FindAllString(content, -1))
	}

	citations := len(citationPattern.FindAllString(content, -1))
	questions := strings.Count(content, "?")

	sentenceCount := textstat.SentenceCount(content)
	if sentenceCount < 1 {
		sentenceCount = 1
	}
	density := float64(reasoningHits) / float64(sentenceCount)

	score := math.Min(density*100+float64(citations)*10+float64(questions)*5, 100)
	feedback := fmt.Sprintf("Reasoning indicators: %d, Citations: %d", reasoningHits, citations)

	return score, feedback, nil
}

var (
	terminalPunctuationPattern = regexp.MustCompile(`[.!?]$`)
	passivePattern             = regexp.MustCompile(`(?i)\b(is|are|was|were|been|be)\s+\w+ed\b`)
	citationPattern            = regexp.MustCompile(`\([^)]*\d{4}[^)]*\)|\[\d+\]`)

	reasoningPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(because|since|therefore|thus|hence|consequently)\b`),
		regexp.MustCompile(`(?i)\b(for example|for instance|such as|including)\b`),
		regexp.MustCompile(`(?i)\b(according to|research shows|studies indicate)\b`),
		regexp.MustCompile(`(?i)\b(in contrast|on the other hand|alternatively)\b`),
	}
)

// countImmediateRepeats counts immediately repeated word pairs, ignoring case.
// Go's regexp has no backreferences, so the pair scan is done over tokens.
func countImmediateRepeats(content string) int {
	words := textstat.Words(strings.ToLower(content))
	repeats := 0
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			repeats++
		}
	}
	return repeats
}

func startsUppercase(sentence string) bool {
	for _, r := range sentence {
		return unicode.IsUpper(r)
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
