package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	reviewDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gradelens",
		Subsystem: "ai",
		Name:      "review_duration_seconds",
		Help:      "Duration of AI essay review requests",
	}, []string{"model"})

	reviewFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradelens",
		Subsystem: "ai",
		Name:      "review_failures_total",
		Help:      "Number of AI essay review failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI reviewer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIReviewer implements Reviewer against the OpenAI chat completion API.
type OpenAIReviewer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIReviewer builds a new reviewer using the provided configuration.
func NewOpenAIReviewer(cfg OpenAIConfig) (*OpenAIReviewer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	tracer := otel.Tracer("github.com/gradelens/gradelens-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIReviewer{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Review sends the essay and the engine's grade to OpenAI and parses the verdict.
func (r *OpenAIReviewer) Review(parent context.Context, input ReviewInput) (ReviewResult, error) {
	ctx, span := r.tracer.Start(parent, "openai.review", trace.WithAttributes(
		attribute.String("model", r.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       r.cfg.Model,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: reviewerSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildReviewPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := r.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	reviewDuration.WithLabelValues(r.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		reviewFailures.WithLabelValues(r.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ReviewResult{}, fmt.Errorf("openai review: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		reviewFailures.WithLabelValues(r.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ReviewResult{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := parseReviewResponse(content)
	if err != nil {
		reviewFailures.WithLabelValues(r.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ReviewResult{}, err
	}

	result.Raw = map[string]interface{}{
		"usage": resp.Usage,
	}

	return result, nil
}

func reviewerSystemPrompt() string {
	return "You are an experienced writing instructor reviewing an automated essay grade. Respond with a JSON object containing " +
		"score (0-100), verdict (agree or adjust), feedback, and an optional details object explaining any adjustment."
}

func buildReviewPrompt(input ReviewInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Assignment\n")
	builder.WriteString(input.AssignmentTitle)
	if input.AssignmentBrief != "" {
		builder.WriteString("\n\n## Brief\n")
		builder.WriteString(input.AssignmentBrief)
	}
	if input.RubricSummary != "" {
		builder.WriteString("\n\n## Rubric\n")
		builder.WriteString(input.RubricSummary)
	}
	builder.WriteString("\n\n## Essay\n")
	builder.WriteString(input.Essay)
	builder.WriteString("\n\n## Automated Grade\n")
	builder.WriteString(fmt.Sprintf("%.1f", input.EngineScore))
	builder.WriteString("\n\n## Automated Feedback\n")
	builder.WriteString(input.EngineFeedback)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseReviewResponse(content string) (ReviewResult, error) {
	type payload struct {
		Score    float64                `json:"score"`
		Feedback string                 `json:"feedback"`
		Verdict  string                 `json:"verdict"`
		Details  map[string]interface{} `json:"details"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return ReviewResult{}, fmt.Errorf("parse review json: %w", err)
	}

	if data.Score < 0 {
		data.Score = 0
	}
	if data.Score > 100 {
		data.Score = 100
	}

	return ReviewResult{
		Score:    data.Score,
		Feedback: data.Feedback,
		Verdict:  data.Verdict,
		Details:  data.Details,
	}, nil
}
