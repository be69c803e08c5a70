// Package api holds the JSON bodies exchanged with the scoring service.
package api

import "github.com/baditaflorin/go_nlg_eval/internal/core/domain"

// Routes served by the scoring service.
const (
	PathHealth   = "/health"
	PathMetrics  = "/v1/metrics"
	PathScore    = "/v1/score/" // followed by the metric name
	PathEvaluate = "/v1/evaluate"
)

// ScoreRequest asks for one metric over an aligned corpus.
type ScoreRequest struct {
	Predictions []string   `json:"predictions"`
	References  [][]string `json:"references"`
}

// ScoreResponse carries the raw, unscaled scorer output.
type ScoreResponse struct {
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
}

// EvaluateRequest asks for a comma-separated list of metrics.
type EvaluateRequest struct {
	Predictions []string   `json:"predictions"`
	References  [][]string `json:"references"`
	Metrics     string     `json:"metrics,omitempty"`
}

// EvaluateResponse carries scaled scores rounded to two decimals.
type EvaluateResponse struct {
	Scores         []domain.Score `json:"scores"`
	ProcessingTime string         `json:"processing_time,omitempty"`
}

// MetricsResponse lists the metrics a service can compute.
type MetricsResponse struct {
	Metrics []string `json:"metrics"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
