package grading

// Config carries the hand-tuned scoring coefficients. The defaults mirror the
// calibration the system shipped with; none of them have a stated derivation,
// so they are exposed as named parameters rather than hardcoded.
type Config struct {
	// MinContentLength is the minimum analyzable content length in
	// characters. Shorter content produces the zero-score default result.
	MinContentLength int

	// DefaultMinWords applies when a criterion does not set MinWords.
	DefaultMinWords int

	// Content score blend weights, summing to 1.
	LengthWeight      float64
	VocabularyWeight  float64
	ReadabilityWeight float64

	// GrammarBaseline is the starting grammar score before deductions.
	GrammarBaseline float64

	// StructureBase is the starting structure score before bonuses.
	StructureBase float64

	// Confidence model: base + wordCount/500*WordFactor +
	// sentenceCount/10*SentenceFactor, capped at ConfidenceCap.
	ConfidenceBase           float64
	ConfidenceWordFactor     float64
	ConfidenceSentenceFactor float64
	ConfidenceCap            float64
}

// DefaultConfig returns the shipped scoring calibration.
func DefaultConfig() Config {
	return Config{
		MinContentLength:         20,
		DefaultMinWords:          100,
		LengthWeight:             0.4,
		VocabularyWeight:         0.4,
		ReadabilityWeight:        0.2,
		GrammarBaseline:          90,
		StructureBase:            60,
		ConfidenceBase:           0.70,
		ConfidenceWordFactor:     0.15,
		ConfidenceSentenceFactor: 0.10,
		ConfidenceCap:            0.98,
	}
}
