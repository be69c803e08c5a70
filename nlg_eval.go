// nlg_eval.go
// Package nlgeval scores generated text against reference text with BLEU,
// METEOR and TER.
//
// A corpus pairs hypothesis line j with reference group j, where group j
// holds line j of every reference file. BLEU and METEOR are reported on a
// 0-100 scale, TER as edits per 100 reference words.
//
// This version uses the functional options pattern to configure the scorers,
// logging, progress output and an optional remote scoring service.
package nlgeval

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/baditaflorin/go_nlg_eval/internal/adapters/corpus"
	"github.com/baditaflorin/go_nlg_eval/internal/adapters/logger"
	"github.com/baditaflorin/go_nlg_eval/internal/adapters/remote"
	"github.com/baditaflorin/go_nlg_eval/internal/adapters/stemmer"
	"github.com/baditaflorin/go_nlg_eval/internal/adapters/synonyms"
	"github.com/baditaflorin/go_nlg_eval/internal/adapters/tokenizer"
	"github.com/baditaflorin/go_nlg_eval/internal/core/bleu"
	"github.com/baditaflorin/go_nlg_eval/internal/core/domain"
	"github.com/baditaflorin/go_nlg_eval/internal/core/meteor"
	"github.com/baditaflorin/go_nlg_eval/internal/core/ter"
	"github.com/baditaflorin/go_nlg_eval/internal/ports"
	"github.com/baditaflorin/go_nlg_eval/internal/runner"
	"github.com/baditaflorin/go_nlg_eval/internal/warmup"
	"github.com/baditaflorin/l"
)

type (
	// Corpus is a hypothesis list aligned with reference groups.
	Corpus = domain.Corpus
	// Report holds metric scores in evaluation order.
	Report = domain.Report
	// Score is one metric value.
	Score = domain.Score
	// Scorer computes a corpus-level metric.
	Scorer = ports.Scorer
)

// Built-in metric names.
const (
	MetricBLEU   = bleu.Name
	MetricMETEOR = meteor.Name
	MetricTER    = ter.Name
)

// DefaultMetrics is the metric list used when none is requested.
const DefaultMetrics = "bleu,meteor,ter"

// ErrUnknownMetric is returned by ScoreRaw for a name no scorer is registered under.
var ErrUnknownMetric = errors.New("unknown metric")

// Option defines a functional option for configuring an Evaluator.
type Option func(*evaluatorConfig)

type evaluatorConfig struct {
	Logger       ports.Logger
	Progress     io.Writer
	BLEU         bleu.Config
	METEOR       meteor.Config
	TER          ter.Config
	Synonyms     ports.SynonymSource
	SynonymsFile string
	RemoteURL    string
	Extra        []runner.Metric
	WarmUp       bool
	WarmUpConfig warmup.WarmupConfig
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *evaluatorConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithPortsLogger sets a logger that already implements the logging port.
func WithPortsLogger(lg ports.Logger) Option {
	return func(cfg *evaluatorConfig) {
		cfg.Logger = lg
	}
}

// WithProgress sets where progress lines are written. Defaults to io.Discard.
func WithProgress(w io.Writer) Option {
	return func(cfg *evaluatorConfig) {
		cfg.Progress = w
	}
}

// WithBLEUConfig overrides the BLEU parameters.
func WithBLEUConfig(c bleu.Config) Option {
	return func(cfg *evaluatorConfig) {
		cfg.BLEU = c
	}
}

// WithMETEORConfig overrides the METEOR parameters.
func WithMETEORConfig(c meteor.Config) Option {
	return func(cfg *evaluatorConfig) {
		cfg.METEOR = c
	}
}

// WithTERConfig overrides the TER parameters.
func WithTERConfig(c ter.Config) Option {
	return func(cfg *evaluatorConfig) {
		cfg.TER = c
	}
}

// WithSynonyms enables the METEOR synonym stage.
func WithSynonyms(source ports.SynonymSource) Option {
	return func(cfg *evaluatorConfig) {
		cfg.Synonyms = source
	}
}

// WithSynonymsFile loads a YAML synonym table for METEOR.
func WithSynonymsFile(path string) Option {
	return func(cfg *evaluatorConfig) {
		cfg.SynonymsFile = path
	}
}

// WithRemote delegates the built-in metrics to the scoring service at baseURL.
func WithRemote(baseURL string) Option {
	return func(cfg *evaluatorConfig) {
		cfg.RemoteURL = baseURL
	}
}

// WithScorer registers scorer under name. A built-in metric of the same name
// is replaced in place; other names run after the built-ins.
func WithScorer(name string, scorer Scorer, scale float64) Option {
	return func(cfg *evaluatorConfig) {
		cfg.Extra = append(cfg.Extra, runner.Metric{Name: name, Scorer: scorer, Scale: scale})
	}
}

// WithWarmUp runs every scorer over a generated corpus during New.
func WithWarmUp(enable bool) Option {
	return func(cfg *evaluatorConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(config warmup.WarmupConfig) Option {
	return func(cfg *evaluatorConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}

// Evaluator runs the evaluation pipeline.
type Evaluator struct {
	runner     *runner.Runner
	logger     ports.Logger
	progress   io.Writer
	ownsLogger bool
}

// New creates an Evaluator with the provided functional options.
func New(opts ...Option) (*Evaluator, error) {
	cfg := &evaluatorConfig{
		Progress:     io.Discard,
		BLEU:         bleu.DefaultConfig(),
		METEOR:       meteor.DefaultConfig(),
		TER:          ter.DefaultConfig(),
		WarmUpConfig: warmup.DefaultWarmupConfig(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ownsLogger := false
	if cfg.Logger == nil {
		lg, err := createDefaultLogger()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
		cfg.Logger = lg
		ownsLogger = true
	}
	if cfg.Progress == nil {
		cfg.Progress = io.Discard
	}

	if cfg.SynonymsFile != "" {
		table, err := synonyms.Load(cfg.SynonymsFile)
		if err != nil {
			return nil, err
		}
		cfg.Logger.Debug("Loaded synonym table", "path", cfg.SynonymsFile, "words", table.Len())
		cfg.Synonyms = table
	}

	metrics, err := builtinMetrics(cfg)
	if err != nil {
		return nil, err
	}
	metrics = merge(metrics, cfg.Extra)

	if cfg.WarmUp {
		manager := warmup.NewManager(cfg.Logger, cfg.WarmUpConfig)
		for _, m := range metrics {
			manager.RegisterScorer(m.Scorer)
		}
		manager.WarmUp(context.Background())
	}

	return &Evaluator{
		runner:     runner.New(cfg.Logger, cfg.Progress, metrics...),
		logger:     cfg.Logger,
		progress:   cfg.Progress,
		ownsLogger: ownsLogger,
	}, nil
}

// builtinMetrics creates the BLEU, METEOR and TER scorers in evaluation order.
func builtinMetrics(cfg *evaluatorConfig) ([]runner.Metric, error) {
	if cfg.RemoteURL != "" {
		cfg.Logger.Info("Using remote scoring service", "url", cfg.RemoteURL)
		return []runner.Metric{
			{Name: MetricBLEU, Scorer: remote.NewScorer(MetricBLEU, cfg.RemoteURL, cfg.Logger), Scale: 100},
			{Name: MetricMETEOR, Scorer: remote.NewScorer(MetricMETEOR, cfg.RemoteURL, cfg.Logger), Scale: 100},
			{Name: MetricTER, Scorer: remote.NewScorer(MetricTER, cfg.RemoteURL, cfg.Logger), Scale: 1},
		}, nil
	}

	bleuScorer, err := bleu.NewScorer(cfg.BLEU, tokenizer.NewTok13a(), cfg.Logger)
	if err != nil {
		return nil, err
	}

	meteorOpts := []meteor.Option{meteor.WithStemmer(stemmer.NewPorter())}
	if cfg.Synonyms != nil {
		meteorOpts = append(meteorOpts, meteor.WithSynonyms(cfg.Synonyms))
	}
	meteorScorer, err := meteor.NewScorer(cfg.METEOR, tokenizer.NewWord(), cfg.Logger, meteorOpts...)
	if err != nil {
		return nil, err
	}

	terScorer, err := ter.NewScorer(cfg.TER, tokenizer.NewWhitespace(!cfg.TER.CaseSensitive), cfg.Logger)
	if err != nil {
		return nil, err
	}

	return []runner.Metric{
		{Name: MetricBLEU, Scorer: bleuScorer, Scale: 100},
		{Name: MetricMETEOR, Scorer: meteorScorer, Scale: 100},
		{Name: MetricTER, Scorer: terScorer, Scale: 1},
	}, nil
}

func merge(metrics, extra []runner.Metric) []runner.Metric {
	for _, e := range extra {
		replaced := false
		for i := range metrics {
			if metrics[i].Name == e.Name {
				metrics[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			metrics = append(metrics, e)
		}
	}
	return metrics
}

// ParseMetrics splits a comma-separated, case-insensitive metric list.
func ParseMetrics(s string) []string {
	return runner.ParseMetricNames(s)
}

// Names returns the metric names the Evaluator can compute, in evaluation order.
func (e *Evaluator) Names() []string {
	return e.runner.Names()
}

// Evaluate computes the requested metrics over corpus. Unknown names are ignored.
func (e *Evaluator) Evaluate(ctx context.Context, c Corpus, metrics []string) (Report, error) {
	return e.runner.Run(ctx, c, metrics)
}

// EvaluateFiles loads the hypothesis file and numRefs reference files and
// evaluates them. With numRefs > 1 the reference files are refsPath0,
// refsPath1 and so on; with numRefs == 1 refsPath is read as is.
func (e *Evaluator) EvaluateFiles(ctx context.Context, refsPath, hypPath string, numRefs int, metrics []string) (Report, error) {
	fmt.Fprintln(e.progress, "Starting to parse inputs...")
	c, err := corpus.Load(refsPath, hypPath, numRefs)
	if err != nil {
		return Report{}, err
	}
	fmt.Fprintln(e.progress, "Finishing to parse inputs")
	e.logger.Debug("Parsed inputs",
		"hypotheses", len(c.Hypotheses),
		"reference_groups", len(c.References),
		"num_refs", numRefs,
	)

	return e.Evaluate(ctx, c, metrics)
}

// ScoreRaw runs one metric and returns the unscaled scorer output.
func (e *Evaluator) ScoreRaw(ctx context.Context, metric string, predictions []string, references [][]string) (float64, error) {
	m, ok := e.runner.Lookup(metric)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	return m.Scorer.Score(ctx, predictions, references)
}

// Scale returns the factor applied to the raw output of metric in reports.
func (e *Evaluator) Scale(metric string) (float64, bool) {
	m, ok := e.runner.Lookup(metric)
	return m.Scale, ok
}

// Close releases the default logger. Loggers passed in by option are left open.
func (e *Evaluator) Close() error {
	if e.ownsLogger {
		return e.logger.Close()
	}
	return nil
}
