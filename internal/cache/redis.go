package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gradelens/gradelens-api/internal/grading"
	"github.com/gradelens/gradelens-api/internal/plagiarism"
)

const (
	gradingField    = "grading"
	plagiarismField = "plagiarism"
)

// Redis is a Store backed by a Redis hash per content key. Each pipeline
// writes its own hash field, which makes the upsert atomic per key without a
// read-modify-write cycle. No TTL is set.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis constructs a Redis-backed store. The prefix namespaces cache keys
// within a shared Redis instance.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "graderesult"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) redisKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

// Get fetches both result fields for key.
func (r *Redis) Get(ctx context.Context, key string) (Entry, bool, error) {
	values, err := r.client.HGetAll(ctx, r.redisKey(key)).Result()
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if len(values) == 0 {
		return Entry{}, false, nil
	}

	var entry Entry
	if raw, ok := values[gradingField]; ok {
		var result grading.Result
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return Entry{}, false, fmt.Errorf("cache decode grading %s: %w", key, err)
		}
		entry.Grading = &result
	}
	if raw, ok := values[plagiarismField]; ok {
		var report plagiarism.Report
		if err := json.Unmarshal([]byte(raw), &report); err != nil {
			return Entry{}, false, fmt.Errorf("cache decode plagiarism %s: %w", key, err)
		}
		entry.Plagiarism = &report
	}

	return entry, true, nil
}

// PutGrading stores the grading result under its own hash field.
func (r *Redis) PutGrading(ctx context.Context, key string, result grading.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache encode grading %s: %w", key, err)
	}
	if err := r.client.HSet(ctx, r.redisKey(key), gradingField, payload).Err(); err != nil {
		return fmt.Errorf("cache put grading %s: %w", key, err)
	}
	return nil
}

// PutPlagiarism stores the plagiarism report under its own hash field.
func (r *Redis) PutPlagiarism(ctx context.Context, key string, report plagiarism.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("cache encode plagiarism %s: %w", key, err)
	}
	if err := r.client.HSet(ctx, r.redisKey(key), plagiarismField, payload).Err(); err != nil {
		return fmt.Errorf("cache put plagiarism %s: %w", key, err)
	}
	return nil
}
