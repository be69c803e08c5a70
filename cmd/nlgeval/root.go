package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	nlgeval "github.com/baditaflorin/go_nlg_eval"
	"github.com/baditaflorin/go_nlg_eval/internal/adapters/logger"
	"github.com/baditaflorin/go_nlg_eval/internal/config"
	"github.com/baditaflorin/go_nlg_eval/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "dev"

// evalOptions holds the parsed command-line flags.
type evalOptions struct {
	reference  string
	hypothesis string
	numRefs    int
	metrics    string
	configPath string
	format     string
	scorerURL  string
	synonyms   string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "nlgeval -R <reference_path_prefix> -H <hypothesis_path> [-nr <num_refs>] [-m <metrics>]",
		Short: "Score generated text against references with BLEU, METEOR and TER",
		Long: `nlgeval compares a hypothesis file with one or more reference files line by line
and prints a one-row table with the requested corpus scores.

With -nr N greater than 1 the reference files are <prefix>0 ... <prefix>N-1;
with -nr 1 the prefix itself is the reference file. BLEU and METEOR are
reported on a 0-100 scale, TER as edits per 100 reference words.`,
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.reference, "reference", "R", "", "Path prefix of the reference files")
	f.StringVarP(&opts.hypothesis, "hypothesis", "H", "", "Path of the hypothesis file")
	f.IntVar(&opts.numRefs, "num_refs", config.DefaultNumRefs, "Number of reference files (also -nr)")
	f.StringVarP(&opts.metrics, "metrics", "m", config.DefaultMetrics, "Comma-separated metrics to compute")
	f.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	f.StringVar(&opts.format, "format", config.DefaultFormat, "Output format: table, json or yaml")
	f.StringVar(&opts.scorerURL, "scorer-url", "", "Base URL of a scoring service to delegate metrics to")
	f.StringVar(&opts.synonyms, "synonyms", "", "YAML synonym table for METEOR")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)

	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("hypothesis")

	return cmd
}

// normalizeFlagName maps the accepted spellings of --num_refs onto one flag.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "num-refs", "nr":
		name = "num_refs"
	}
	return pflag.NormalizedName(name)
}

// rewriteLegacyArgs turns the single-dash -nr spelling into --num_refs,
// which pflag would otherwise read as the shorthands -n and -r.
func rewriteLegacyArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		switch {
		case arg == "-nr":
			arg = "--num_refs"
		case strings.HasPrefix(arg, "-nr="):
			arg = "--num_refs=" + strings.TrimPrefix(arg, "-nr=")
		}
		out = append(out, arg)
	}
	return out
}

func runEvaluate(cmd *cobra.Command, opts *evalOptions) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	applyFlags(cmd.Flags(), opts, &cfg)

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	level := logger.LevelWarn
	if cfg.Log.Debug {
		level = logger.LevelDebug
	}
	lg, err := logger.NewStdLogger(
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithJSON(cfg.Log.JSON),
		logger.WithLevel(level),
	)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer lg.Close()

	evalOpts, err := evaluatorOptions(cfg)
	if err != nil {
		return err
	}

	// Progress lines share stdout with the table; structured formats keep stdout clean.
	var progress io.Writer = cmd.OutOrStdout()
	if format != report.FormatTable {
		progress = cmd.ErrOrStderr()
	}
	evalOpts = append(evalOpts, nlgeval.WithPortsLogger(lg), nlgeval.WithProgress(progress))
	fmt.Fprintln(progress, "Reading input...")

	ev, err := nlgeval.New(evalOpts...)
	if err != nil {
		return err
	}
	defer ev.Close()

	fmt.Fprintln(progress, "Read input finished...")
	lg.Debug("Evaluating",
		"reference", opts.reference,
		"hypothesis", opts.hypothesis,
		"num_refs", cfg.NumRefs,
		"metrics", cfg.Metrics,
	)

	result, err := ev.EvaluateFiles(contextOf(cmd), opts.reference, opts.hypothesis, cfg.NumRefs, nlgeval.ParseMetrics(cfg.Metrics))
	if err != nil {
		return err
	}

	return report.Render(cmd.OutOrStdout(), result, format)
}

// applyFlags copies explicitly set flags over the file configuration.
func applyFlags(flags *pflag.FlagSet, opts *evalOptions, cfg *config.Config) {
	if flags.Changed("num_refs") {
		cfg.NumRefs = opts.numRefs
	}
	if flags.Changed("metrics") {
		cfg.Metrics = opts.metrics
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("scorer-url") {
		cfg.ScorerURL = opts.scorerURL
	}
	if flags.Changed("synonyms") {
		cfg.Synonyms = opts.synonyms
	}
	if opts.debug {
		cfg.Log.Debug = true
	}
}

// evaluatorOptions translates the configuration into evaluator options.
func evaluatorOptions(cfg config.Config) ([]nlgeval.Option, error) {
	bleuCfg, err := cfg.BLEU()
	if err != nil {
		return nil, err
	}
	meteorCfg, err := cfg.METEOR()
	if err != nil {
		return nil, err
	}
	terCfg, err := cfg.TER()
	if err != nil {
		return nil, err
	}

	opts := []nlgeval.Option{
		nlgeval.WithBLEUConfig(bleuCfg),
		nlgeval.WithMETEORConfig(meteorCfg),
		nlgeval.WithTERConfig(terCfg),
	}
	if cfg.Synonyms != "" {
		opts = append(opts, nlgeval.WithSynonymsFile(cfg.Synonyms))
	}
	if cfg.ScorerURL != "" {
		opts = append(opts, nlgeval.WithRemote(cfg.ScorerURL))
	}
	return opts, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func execute(ctx context.Context, args []string) error {
	rootCmd := newRootCommand()
	rootCmd.SetArgs(rewriteLegacyArgs(args))
	return rootCmd.ExecuteContext(ctx)
}
