package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	gradingTotal           *prometheus.CounterVec
	gradingDurationSeconds *prometheus.HistogramVec
	plagiarismChecksTotal  *prometheus.CounterVec
	resultCacheTotal       *prometheus.CounterVec
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		gradingTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradelens_grading_total",
			Help: "Total number of grading runs by outcome.",
		}, []string{"outcome"})

		gradingDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradelens_grading_duration_seconds",
			Help:    "Latency distribution of grading runs.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"source"})

		plagiarismChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradelens_plagiarism_checks_total",
			Help: "Total number of plagiarism checks by verdict.",
		}, []string{"verdict"})

		resultCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradelens_result_cache_total",
			Help: "Result cache lookups by pipeline and outcome.",
		}, []string{"pipeline", "outcome"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradelens_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradelens_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(
			gradingTotal,
			gradingDurationSeconds,
			plagiarismChecksTotal,
			resultCacheTotal,
			httpRequestsTotal,
			httpLatencySeconds,
		)
	})
}

// GradingRuns exposes the counter for grading runs.
func GradingRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingTotal
}

// GradingDuration exposes the grading latency histogram.
func GradingDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return gradingDurationSeconds
}

// PlagiarismChecks exposes the counter for plagiarism checks.
func PlagiarismChecks() *prometheus.CounterVec {
	RegisterMetrics()
	return plagiarismChecksTotal
}

// ResultCacheLookups exposes the result cache counter.
func ResultCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return resultCacheTotal
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}
