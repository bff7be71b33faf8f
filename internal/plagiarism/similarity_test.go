package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequenceSimilarityIdenticalTexts(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog near the river bank."
	require.GreaterOrEqual(t, SequenceSimilarity(text, text), 0.99)
}

func TestSequenceSimilarityDisjointTexts(t *testing.T) {
	score := SequenceSimilarity("alpha beta gamma", "xyz qrs tuv")
	require.GreaterOrEqual(t, score, 0.0)
	require.Less(t, score, 0.5)
}

func TestSequenceSimilarityEmpty(t *testing.T) {
	require.Equal(t, 1.0, SequenceSimilarity("", ""))
	require.Equal(t, 0.0, SequenceSimilarity("something", ""))
}

func TestJaccardSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"the cat sat on the mat", "a cat sat on a rug"},
		{"completely different words here", "nothing shared at all"},
		{"one two three", "one two three four"},
	}
	for _, pair := range pairs {
		require.Equal(t, JaccardSimilarity(pair[0], pair[1]), JaccardSimilarity(pair[1], pair[0]))
	}
}

func TestJaccardSimilarityEmptySet(t *testing.T) {
	require.Equal(t, 0.0, JaccardSimilarity("", "some words"))
	require.Equal(t, 0.0, JaccardSimilarity("...", "some words"))
}

func TestJaccardSimilarityIdentical(t *testing.T) {
	require.Equal(t, 1.0, JaccardSimilarity("red green blue", "blue green red"))
}

func TestNGramOverlap(t *testing.T) {
	a := "the quick brown fox jumps over the lazy dog"
	require.Equal(t, 1.0, NGramOverlap(a, a, 3))
	require.Equal(t, 0.0, NGramOverlap(a, "completely unrelated text entirely", 3))
	require.Equal(t, 0.0, NGramOverlap("too short", a, 3))
}

func TestIsParaphrase(t *testing.T) {
	original := "Climate change poses a serious threat to coastal cities around the world today."
	reworded := "Climate change poses a serious threat to many coastal cities around the globe today."
	require.True(t, IsParaphrase(original, reworded, 0.6))

	unrelated := "The bakery sells fresh bread every morning before sunrise."
	require.False(t, IsParaphrase(original, unrelated, 0.6))
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "hello world again", Normalize("  Hello,  WORLD!  again. "))
}
