// Package plagiarism compares submissions against prior work using several
// independent text-similarity signals and aggregates them into a suspicion
// verdict.
package plagiarism

import (
	"regexp"
	"strings"
)

var (
	wordPattern        = regexp.MustCompile(`\w+`)
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, strips punctuation and collapses whitespace so
// the similarity measures compare wording rather than formatting.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = punctuationPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SequenceSimilarity returns the longest-matching-block ratio of the two
// texts in [0,1], the edit-alignment measure popularised by difflib: twice the
// number of matched characters divided by the total length. Case is ignored.
func SequenceSimilarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	matched := matchedRunes(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

type matchSpan struct {
	alo, ahi, blo, bhi int
}

// matchedRunes sums the sizes of all maximal matching blocks, recursing on
// the unmatched regions to the left and right of each block.
func matchedRunes(a, b []rune) int {
	total := 0
	queue := []matchSpan{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		span := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := longestMatch(a, b, span)
		if size == 0 {
			continue
		}
		total += size
		queue = append(queue,
			matchSpan{span.alo, i, span.blo, j},
			matchSpan{i + size, span.ahi, j + size, span.bhi},
		)
	}
	return total
}

func longestMatch(a, b []rune, span matchSpan) (besti, bestj, bestsize int) {
	besti, bestj = span.alo, span.blo
	j2len := make(map[int]int)
	for i := span.alo; i < span.ahi; i++ {
		next := make(map[int]int)
		for j := span.blo; j < span.bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestsize
}

// JaccardSimilarity is the ratio of shared to total distinct words of the two
// texts, in [0,1]. It is symmetric and returns 0 when either text has no
// words.
func JaccardSimilarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// NGrams returns the contiguous n-word sequences of the text, lowercased.
func NGrams(text string, n int) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) < n {
		return nil
	}
	grams := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		grams = append(grams, strings.Join(words[i:i+n], " "))
	}
	return grams
}

// NGramOverlap is the share of n-grams of the smaller text that also occur in
// the other, in [0,1]. Returns 0 when either text yields no n-grams.
func NGramOverlap(a, b string, n int) float64 {
	setA := stringSet(NGrams(a, n))
	setB := stringSet(NGrams(b, n))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for gram := range setA {
		if _, ok := setB[gram]; ok {
			intersection++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(intersection) / float64(smaller)
}

// IsParaphrase reports whether two texts are substantively similar despite
// surface rewording: trigram overlap or distinct-word overlap above the
// threshold.
func IsParaphrase(a, b string, threshold float64) bool {
	if NGramOverlap(a, b, 3) > threshold {
		return true
	}

	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return false
	}

	common := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			common++
		}
	}
	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}
	return float64(common)/float64(larger) > threshold
}

func wordSet(text string) map[string]struct{} {
	return stringSet(wordPattern.FindAllString(strings.ToLower(text), -1))
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}
