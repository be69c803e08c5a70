// Package remote delegates scoring to an HTTP scoring service.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/baditaflorin/go_nlg_eval/internal/api"
	"github.com/baditaflorin/go_nlg_eval/internal/ports"
	"github.com/valyala/fasthttp"
)

// DefaultTimeout bounds one scoring request.
const DefaultTimeout = 5 * time.Minute

// Scorer computes a metric by POSTing the corpus to <baseURL>/v1/score/<metric>.
type Scorer struct {
	metric  string
	baseURL string
	client  *fasthttp.Client
	timeout time.Duration
	logger  ports.Logger
}

// Option configures a remote Scorer.
type Option func(*Scorer)

// WithClient sets the fasthttp client, e.g. one with a custom dialer.
func WithClient(c *fasthttp.Client) Option {
	return func(s *Scorer) {
		s.client = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scorer) {
		s.timeout = d
	}
}

// NewScorer creates a remote scorer for metric.
func NewScorer(metric, baseURL string, logger ports.Logger, opts ...Option) *Scorer {
	s := &Scorer{
		metric:  metric,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &fasthttp.Client{Name: "nlgeval"},
		timeout: DefaultTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the metric name.
func (s *Scorer) Name() string {
	return s.metric
}

// Score sends the corpus to the service and returns the raw score.
func (s *Scorer) Score(ctx context.Context, predictions []string, references [][]string) (float64, error) {
	body, err := json.Marshal(api.ScoreRequest{Predictions: predictions, References: references})
	if err != nil {
		return 0, fmt.Errorf("encoding score request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := s.baseURL + api.PathScore + s.metric
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	start := time.Now()
	if err := s.client.DoTimeout(req, resp, timeout); err != nil {
		return 0, fmt.Errorf("calling scoring service %s: %w", url, err)
	}
	s.logger.Debug("Remote score request finished",
		"url", url,
		"status", resp.StatusCode(),
		"duration", time.Since(start),
	)

	if resp.StatusCode() != fasthttp.StatusOK {
		var e api.ErrorResponse
		if json.Unmarshal(resp.Body(), &e) == nil && e.Error != "" {
			return 0, fmt.Errorf("scoring service returned %d: %s", resp.StatusCode(), e.Error)
		}
		return 0, fmt.Errorf("scoring service returned %d", resp.StatusCode())
	}

	var out api.ScoreResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return 0, fmt.Errorf("decoding score response: %w", err)
	}
	return out.Score, nil
}
