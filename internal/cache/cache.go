// Package cache provides content-addressed memoization of grading and
// plagiarism results. Keys are deterministic digests of normalized content,
// so identical submissions always hit the same entry. Entries never expire;
// content identity, not freshness, is what makes a hit valid.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/gradelens/gradelens-api/internal/grading"
	"github.com/gradelens/gradelens-api/internal/plagiarism"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Key returns the content hash for a submission body: the hex SHA-256 of the
// lowercased, whitespace-collapsed text.
func Key(content string) string {
	normalized := whitespacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(content)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Entry groups the cached results for one content hash. Either field may be
// nil when only one pipeline has run for the content.
type Entry struct {
	Grading    *grading.Result    `json:"grading,omitempty"`
	Plagiarism *plagiarism.Report `json:"plagiarism,omitempty"`
}

// Store is a content-addressed result cache. Writes are per-key upserts:
// setting the grading result must not clobber an existing plagiarism result
// for the same key and vice versa. Concurrent writers racing on identical
// content are acceptable; results for equal content are equal, so the last
// write is harmless.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	PutGrading(ctx context.Context, key string, result grading.Result) error
	PutPlagiarism(ctx context.Context, key string, report plagiarism.Report) error
}
