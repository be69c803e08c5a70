// nlg_eval_test.go
package nlgeval

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/baditaflorin/go_nlg_eval/internal/adapters/logger"
	"github.com/baditaflorin/go_nlg_eval/internal/core/bleu"
	"github.com/baditaflorin/go_nlg_eval/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newEvaluator(t *testing.T, opts ...Option) (*Evaluator, *bytes.Buffer) {
	t.Helper()
	progress := &bytes.Buffer{}
	opts = append([]Option{WithPortsLogger(logger.NewNop()), WithProgress(progress)}, opts...)
	e, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, progress
}

func TestEvaluateIdenticalSentence(t *testing.T) {
	e, _ := newEvaluator(t)
	corpus := Corpus{
		Hypotheses: []string{"the cat sat"},
		References: [][]string{{"the cat sat"}},
	}

	report, err := e.Evaluate(context.Background(), corpus, ParseMetrics(DefaultMetrics))
	require.NoError(t, err)
	require.Equal(t, 3, report.Len())

	bleuScore, _ := report.Get(MetricBLEU)
	assert.InDelta(t, 100.0, bleuScore, 1e-9)

	// One chunk over three matches.
	meteorScore, _ := report.Get(MetricMETEOR)
	assert.InDelta(t, 100*(1-0.5/27), meteorScore, 1e-9)

	terScore, _ := report.Get(MetricTER)
	assert.InDelta(t, 0.0, terScore, 1e-9)

	names := []string{}
	for _, s := range report.Scores {
		names = append(names, s.Metric)
	}
	assert.Equal(t, []string{"bleu", "meteor", "ter"}, names)
}

func TestEvaluateFiles(t *testing.T) {
	dir := t.TempDir()
	hyp := writeFile(t, dir, "hyp.txt", "the cat sat\na dog ran")
	refs := filepath.Join(dir, "ref")
	writeFile(t, dir, "ref0", "the cat sat\na dog ran")
	writeFile(t, dir, "ref1", "a cat sat\nthe dog ran")

	e, progress := newEvaluator(t)
	report, err := e.EvaluateFiles(context.Background(), refs, hyp, 2, []string{"ter", "bleu"})
	require.NoError(t, err)

	require.Equal(t, 2, report.Len())
	assert.Equal(t, "bleu", report.Scores[0].Metric)
	bleuScore, _ := report.Get("bleu")
	assert.InDelta(t, 100.0, bleuScore, 1e-9)
	terScore, _ := report.Get("ter")
	assert.InDelta(t, 0.0, terScore, 1e-9)

	out := progress.String()
	assert.Contains(t, out, "Starting to parse inputs...\nFinishing to parse inputs\nEvaluation started...\n")
	assert.Contains(t, out, "Computing BLEU...\nBLEU computed: 100\n")
	assert.Contains(t, out, "Evaluation finished...\n")
	assert.NotContains(t, out, "METEOR")
}

func TestEvaluateFilesMissingHypothesis(t *testing.T) {
	dir := t.TempDir()
	refs := writeFile(t, dir, "ref", "the cat sat")

	e, progress := newEvaluator(t)
	_, err := e.EvaluateFiles(context.Background(), refs, filepath.Join(dir, "missing.txt"), 1, ParseMetrics(DefaultMetrics))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NotContains(t, progress.String(), "Evaluation started...")
}

func TestEvaluateUnknownMetric(t *testing.T) {
	e, _ := newEvaluator(t)
	report, err := e.Evaluate(context.Background(), Corpus{
		Hypotheses: []string{"a"},
		References: [][]string{{"a"}},
	}, ParseMetrics("foo"))
	require.NoError(t, err)
	assert.Zero(t, report.Len())
}

func TestWithScorerReplacesBuiltin(t *testing.T) {
	ctrl := gomock.NewController(t)
	meteorMock := mocks.NewMockScorer(ctrl)
	extra := mocks.NewMockScorer(ctrl)
	extra.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).Return(0.5, nil)

	e, _ := newEvaluator(t,
		WithScorer(MetricMETEOR, meteorMock, 100),
		WithScorer("length", extra, 2),
	)
	assert.Equal(t, []string{"bleu", "meteor", "ter", "length"}, e.Names())

	// meteorMock has no expectations: calling it fails the test.
	report, err := e.Evaluate(context.Background(), Corpus{
		Hypotheses: []string{"the cat sat"},
		References: [][]string{{"the cat sat"}},
	}, []string{"bleu", "length"})
	require.NoError(t, err)
	v, ok := report.Get("length")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestScoreRaw(t *testing.T) {
	e, _ := newEvaluator(t)

	raw, err := e.ScoreRaw(context.Background(), MetricBLEU, []string{"the cat sat"}, [][]string{{"the cat sat"}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, raw, 1e-9)

	_, err = e.ScoreRaw(context.Background(), "rouge", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownMetric)

	scale, ok := e.Scale(MetricTER)
	assert.True(t, ok)
	assert.Equal(t, 1.0, scale)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := bleu.DefaultConfig()
	cfg.MaxOrder = 0
	_, err := New(WithPortsLogger(logger.NewNop()), WithBLEUConfig(cfg))
	assert.Error(t, err)
}

func TestNewMissingSynonymsFile(t *testing.T) {
	_, err := New(WithPortsLogger(logger.NewNop()), WithSynonymsFile(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestSynonymsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "syn.yaml", "synonyms:\n  - [car, auto]\n")
	e, _ := newEvaluator(t, WithSynonymsFile(path))

	withSyn, err := e.ScoreRaw(context.Background(), MetricMETEOR, []string{"a red car"}, [][]string{{"a red auto"}})
	require.NoError(t, err)

	plain, _ := newEvaluator(t)
	without, err := plain.ScoreRaw(context.Background(), MetricMETEOR, []string{"a red car"}, [][]string{{"a red auto"}})
	require.NoError(t, err)

	assert.Greater(t, withSyn, without)
}
