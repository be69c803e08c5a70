package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	nlgeval "github.com/baditaflorin/go_nlg_eval"
	"github.com/baditaflorin/go_nlg_eval/internal/api"
	"github.com/baditaflorin/go_nlg_eval/internal/core/bleu"
	"github.com/baditaflorin/go_nlg_eval/internal/core/meteor"
	"github.com/baditaflorin/go_nlg_eval/internal/ports"
	"github.com/baditaflorin/go_nlg_eval/internal/report"
	"github.com/valyala/fasthttp"
)

// handler serves the scoring API on top of an Evaluator.
type handler struct {
	evaluator *nlgeval.Evaluator
	logger    ports.Logger
	timeout   time.Duration
}

func newHandler(evaluator *nlgeval.Evaluator, logger ports.Logger, timeout time.Duration) *handler {
	return &handler{
		evaluator: evaluator,
		logger:    logger,
		timeout:   timeout,
	}
}

// ServeHTTP is the main fasthttp request handler
func (h *handler) ServeHTTP(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")

	path := string(ctx.Path())
	switch {
	case path == api.PathHealth:
		h.handleHealthCheck(ctx)
	case path == api.PathMetrics:
		h.handleMetrics(ctx)
	case path == api.PathEvaluate:
		h.handleEvaluate(ctx)
	case strings.HasPrefix(path, api.PathScore):
		h.handleScore(ctx, strings.TrimPrefix(path, api.PathScore))
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		h.writeJSONError(ctx, "Not found")
	}

	h.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", path,
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

// handleHealthCheck responds to health check requests
func (h *handler) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics lists the metrics the service computes
func (h *handler) handleMetrics(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, api.MetricsResponse{Metrics: h.evaluator.Names()})
}

// handleScore returns the raw output of one scorer
func (h *handler) handleScore(ctx *fasthttp.RequestCtx, metric string) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return
	}

	var req api.ScoreRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	c, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	score, err := h.evaluator.ScoreRaw(c, metric, req.Predictions, req.References)
	if err != nil {
		ctx.SetStatusCode(statusFor(err))
		h.writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, api.ScoreResponse{Metric: metric, Score: score})
}

// handleEvaluate computes several metrics and returns the rounded report
func (h *handler) handleEvaluate(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		h.writeJSONError(ctx, "Method not allowed")
		return
	}

	var req api.EvaluateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		h.writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}
	if req.Metrics == "" {
		req.Metrics = nlgeval.DefaultMetrics
	}

	c, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	start := time.Now()
	result, err := h.evaluator.Evaluate(c, nlgeval.Corpus{
		Hypotheses: req.Predictions,
		References: req.References,
	}, nlgeval.ParseMetrics(req.Metrics))
	if err != nil {
		ctx.SetStatusCode(statusFor(err))
		h.writeJSONError(ctx, err.Error())
		return
	}

	scores := report.Rounded(result).Scores
	if scores == nil {
		scores = []nlgeval.Score{}
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	h.writeJSONResponse(ctx, api.EvaluateResponse{
		Scores:         scores,
		ProcessingTime: time.Since(start).String(),
	})
}

// statusFor maps scoring errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, nlgeval.ErrUnknownMetric):
		return fasthttp.StatusNotFound
	case errors.Is(err, bleu.ErrEmptyCorpus), errors.Is(err, meteor.ErrEmptyCorpus):
		return fasthttp.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return fasthttp.StatusGatewayTimeout
	default:
		return fasthttp.StatusInternalServerError
	}
}

// Helper functions

// writeJSONResponse writes a JSON response to the context
func (h *handler) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Error marshaling JSON response", "error", err)
		h.writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (h *handler) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(api.ErrorResponse{Error: message})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		h.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}
