package plagiarism

// Config exposes the detection thresholds as named parameters. The defaults
// are the hand-tuned values the detector shipped with.
type Config struct {
	// MinContentLength is the minimum analyzable content length in
	// characters; shorter content yields an empty, non-suspicious report.
	MinContentLength int

	// Self-plagiarism pass thresholds, on the 0-100 scale.
	SelfSequenceThreshold float64
	SelfJaccardThreshold  float64

	// Cross-student pass: weighted = seq*SequenceWeight*100 +
	// jaccard*JaccardWeight*100 + seq*ParaphraseWeight*100 when a paraphrase
	// is detected.
	SequenceWeight   float64
	JaccardWeight    float64
	ParaphraseWeight float64

	// CrossFlagThreshold flags a comparison; HighSimilarityThreshold records
	// it as a high-similarity match.
	CrossFlagThreshold      float64
	HighSimilarityThreshold float64

	// ParaphraseThreshold is the trigram / word-overlap ratio above which two
	// texts count as paraphrased, in [0,1].
	ParaphraseThreshold float64

	// SuspicionThreshold is the average similarity above which a report is
	// marked suspicious.
	SuspicionThreshold float64

	// RepetitionCap bounds the internal-repetition fallback estimate.
	RepetitionCap float64

	// PatternSegmentLimit is the number of pattern-flagged sentences above
	// which stylistic anomaly alone marks the report suspicious.
	PatternSegmentLimit int

	// AIScoreThreshold flags the authorship heuristic, in [0,1].
	AIScoreThreshold float64
}

// DefaultConfig returns the shipped detection calibration.
func DefaultConfig() Config {
	return Config{
		MinContentLength:        20,
		SelfSequenceThreshold:   30,
		SelfJaccardThreshold:    25,
		SequenceWeight:          0.4,
		JaccardWeight:           0.3,
		ParaphraseWeight:        0.3,
		CrossFlagThreshold:      25,
		HighSimilarityThreshold: 40,
		ParaphraseThreshold:     0.6,
		SuspicionThreshold:      25,
		RepetitionCap:           15,
		PatternSegmentLimit:     5,
		AIScoreThreshold:        0.6,
	}
}
