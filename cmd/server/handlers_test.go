package main

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	nlgeval "github.com/baditaflorin/go_nlg_eval"
	"github.com/baditaflorin/go_nlg_eval/internal/adapters/logger"
	"github.com/baditaflorin/go_nlg_eval/internal/adapters/remote"
	"github.com/baditaflorin/go_nlg_eval/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newTestHandler(t *testing.T) *handler {
	t.Helper()
	ev, err := nlgeval.New(nlgeval.WithPortsLogger(logger.NewNop()))
	require.NoError(t, err)
	return newHandler(ev, logger.NewNop(), time.Minute)
}

func do(h *handler, method, path string, body any) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		data, _ := json.Marshal(body)
		ctx.Request.SetBody(data)
	}
	h.ServeHTTP(&ctx)
	return &ctx
}

func TestHealth(t *testing.T) {
	ctx := do(newTestHandler(t), fasthttp.MethodGet, api.PathHealth, nil)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"status":"ok"`)
}

func TestMetrics(t *testing.T) {
	ctx := do(newTestHandler(t), fasthttp.MethodGet, api.PathMetrics, nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp api.MetricsResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, []string{"bleu", "meteor", "ter"}, resp.Metrics)
}

func TestScore(t *testing.T) {
	h := newTestHandler(t)
	req := api.ScoreRequest{
		Predictions: []string{"the cat sat"},
		References:  [][]string{{"the cat sat"}},
	}

	ctx := do(h, fasthttp.MethodPost, api.PathScore+"bleu", req)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp api.ScoreResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "bleu", resp.Metric)
	assert.InDelta(t, 1.0, resp.Score, 1e-9)
}

func TestScoreErrors(t *testing.T) {
	h := newTestHandler(t)
	valid := api.ScoreRequest{Predictions: []string{"a"}, References: [][]string{{"a"}}}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown metric", fasthttp.MethodPost, api.PathScore + "rouge", valid, fasthttp.StatusNotFound},
		{"empty corpus", fasthttp.MethodPost, api.PathScore + "bleu", api.ScoreRequest{}, fasthttp.StatusBadRequest},
		{"wrong method", fasthttp.MethodGet, api.PathScore + "bleu", nil, fasthttp.StatusMethodNotAllowed},
		{"bad body", fasthttp.MethodPost, api.PathScore + "bleu", "not an object", fasthttp.StatusBadRequest},
		{"unknown path", fasthttp.MethodGet, "/nope", nil, fasthttp.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, ctx.Response.StatusCode())

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestEvaluate(t *testing.T) {
	h := newTestHandler(t)
	ctx := do(h, fasthttp.MethodPost, api.PathEvaluate, api.EvaluateRequest{
		Predictions: []string{"the cat sat"},
		References:  [][]string{{"the cat sat"}},
		Metrics:     "TER,bleu",
	})
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp api.EvaluateResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Len(t, resp.Scores, 2)
	assert.Equal(t, nlgeval.Score{Metric: "bleu", Value: 100}, resp.Scores[0])
	assert.Equal(t, nlgeval.Score{Metric: "ter", Value: 0}, resp.Scores[1])
}

func TestEvaluateUnknownMetricsIsEmpty(t *testing.T) {
	ctx := do(newTestHandler(t), fasthttp.MethodPost, api.PathEvaluate, api.EvaluateRequest{
		Predictions: []string{"a"},
		References:  [][]string{{"a"}},
		Metrics:     "foo",
	})
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"scores":[]`)
}

func TestRemoteScorerRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	ln := fasthttputil.NewInmemoryListener()
	go func() {
		_ = fasthttp.Serve(ln, h.ServeHTTP)
	}()
	t.Cleanup(func() { _ = ln.Close() })

	client := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	}

	ev, err := nlgeval.New(
		nlgeval.WithPortsLogger(logger.NewNop()),
		nlgeval.WithScorer(nlgeval.MetricTER, remote.NewScorer(nlgeval.MetricTER, "http://scoring.local", logger.NewNop(), remote.WithClient(client)), 1),
	)
	require.NoError(t, err)

	result, err := ev.Evaluate(context.Background(), nlgeval.Corpus{
		Hypotheses: []string{"sat the cat"},
		References: [][]string{{"the cat sat"}},
	}, []string{"ter"})
	require.NoError(t, err)

	local, err := h.evaluator.ScoreRaw(context.Background(), "ter", []string{"sat the cat"}, [][]string{{"the cat sat"}})
	require.NoError(t, err)

	got, ok := result.Get("ter")
	require.True(t, ok)
	assert.InDelta(t, local, got, 1e-9)
	assert.Greater(t, got, 0.0)
}
