// Package runner computes the requested metrics over a corpus.
package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/baditaflorin/go_nlg_eval/internal/core/domain"
	"github.com/baditaflorin/go_nlg_eval/internal/ports"
)

// Metric is a registered scorer. Raw scorer output is multiplied by Scale.
type Metric struct {
	Name   string
	Scorer ports.Scorer
	Scale  float64
}

// Runner runs registered metrics in registration order.
type Runner struct {
	metrics  []Metric
	logger   ports.Logger
	progress io.Writer
}

// New creates a runner. Progress lines go to progress; pass io.Discard to silence them.
func New(logger ports.Logger, progress io.Writer, metrics ...Metric) *Runner {
	if progress == nil {
		progress = io.Discard
	}
	return &Runner{
		metrics:  metrics,
		logger:   logger,
		progress: progress,
	}
}

// ParseMetricNames splits a comma-separated, case-insensitive metric list.
func ParseMetricNames(s string) []string {
	var names []string
	for _, part := range strings.Split(strings.ToLower(s), ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Names returns the registered metric names in order.
func (r *Runner) Names() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name
	}
	return names
}

// Lookup returns the registered metric called name.
func (r *Runner) Lookup(name string) (Metric, bool) {
	for _, m := range r.metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Run computes every registered metric that appears in requested.
// Names that are not registered are ignored.
func (r *Runner) Run(ctx context.Context, corpus domain.Corpus, requested []string) (domain.Report, error) {
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		want[name] = true
	}

	var report domain.Report
	fmt.Fprintln(r.progress, "Evaluation started...")
	for _, m := range r.metrics {
		if !want[m.Name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return domain.Report{}, err
		}

		label := strings.ToUpper(m.Name)
		fmt.Fprintf(r.progress, "Computing %s...\n", label)
		start := time.Now()

		raw, err := m.Scorer.Score(ctx, corpus.Hypotheses, corpus.References)
		if err != nil {
			r.logger.Error("Metric failed", "metric", m.Name, "error", err)
			return domain.Report{}, fmt.Errorf("computing %s: %w", m.Name, err)
		}

		value := raw * m.Scale
		fmt.Fprintf(r.progress, "%s computed: %v\n", label, value)
		r.logger.Debug("Metric computed",
			"metric", m.Name,
			"raw", raw,
			"value", value,
			"duration", time.Since(start),
		)
		report.Add(m.Name, value)
	}
	fmt.Fprintln(r.progress, "Evaluation finished...")

	return report, nil
}
