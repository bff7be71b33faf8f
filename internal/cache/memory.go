package cache

import (
	"context"
	"sync"

	"github.com/gradelens/gradelens-api/internal/grading"
	"github.com/gradelens/gradelens-api/internal/plagiarism"
)

// Memory is an in-process Store. Unbounded by design; see the package note on
// expiry.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

// Get returns the entry for key, if present.
func (m *Memory) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	return entry, ok, nil
}

// PutGrading upserts the grading result for key, preserving any plagiarism
// result already cached under it.
func (m *Memory) PutGrading(_ context.Context, key string, result grading.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.entries[key]
	entry.Grading = &result
	m.entries[key] = entry
	return nil
}

// PutPlagiarism upserts the plagiarism report for key, preserving any grading
// result already cached under it.
func (m *Memory) PutPlagiarism(_ context.Context, key string, report plagiarism.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.entries[key]
	entry.Plagiarism = &report
	m.entries[key] = entry
	return nil
}

// Len reports the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
