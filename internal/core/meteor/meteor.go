// Package meteor implements METEOR with staged unigram alignment
// (exact, stem, synonym) and a fragmentation penalty.
package meteor

import (
	"context"
	"errors"
	"math"

	"github.com/baditaflorin/go_nlg_eval/internal/ports"
)

// Name is the registry name of the metric.
const Name = "meteor"

// ErrEmptyCorpus is returned when there is no segment to average over.
var ErrEmptyCorpus = errors.New("meteor: no segments to score")

// Config holds the METEOR parameters.
type Config struct {
	// Alpha weights precision against recall in the harmonic mean.
	Alpha float64 `mapstructure:"alpha" yaml:"alpha"`
	// Beta shapes the fragmentation penalty.
	Beta float64 `mapstructure:"beta" yaml:"beta"`
	// Gamma is the maximum fragmentation penalty.
	Gamma float64 `mapstructure:"gamma" yaml:"gamma"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Alpha: 0.9,
		Beta:  3,
		Gamma: 0.5,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Alpha < 0 || c.Alpha > 1 {
		return errors.New("meteor: alpha must be between 0 and 1")
	}
	if c.Beta < 0 {
		return errors.New("meteor: beta must not be negative")
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return errors.New("meteor: gamma must be between 0 and 1")
	}
	return nil
}

// Scorer computes corpus METEOR as the mean of segment scores.
type Scorer struct {
	config    Config
	tokenizer ports.Tokenizer
	stemmer   ports.Stemmer
	synonyms  ports.SynonymSource
	logger    ports.Logger
}

// Option configures optional matching stages.
type Option func(*Scorer)

// WithStemmer enables the stem stage.
func WithStemmer(stemmer ports.Stemmer) Option {
	return func(s *Scorer) {
		s.stemmer = stemmer
	}
}

// WithSynonyms enables the synonym stage.
func WithSynonyms(source ports.SynonymSource) Option {
	return func(s *Scorer) {
		s.synonyms = source
	}
}

// NewScorer creates a METEOR scorer. The tokenizer is expected to lower-case.
func NewScorer(config Config, tokenizer ports.Tokenizer, logger ports.Logger, opts ...Option) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{
		config:    config,
		tokenizer: tokenizer,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the metric name.
func (s *Scorer) Name() string {
	return Name
}

// Score returns the mean segment METEOR as a fraction.
func (s *Scorer) Score(ctx context.Context, predictions []string, references [][]string) (float64, error) {
	n := min(len(predictions), len(references))
	if n == 0 {
		return 0, ErrEmptyCorpus
	}

	total := 0.0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		total += s.Segment(predictions[i], references[i])
	}

	mean := total / float64(n)
	s.logger.Debug("Computed METEOR", "segments", n, "mean", mean)
	return mean, nil
}

// Segment scores one hypothesis against its references and keeps the best.
func (s *Scorer) Segment(hypothesis string, references []string) float64 {
	hyp := s.tokenizer.Tokenize(hypothesis)
	best := 0.0
	for _, r := range references {
		best = math.Max(best, s.single(hyp, s.tokenizer.Tokenize(r)))
	}
	return best
}

func (s *Scorer) single(hyp, ref []string) float64 {
	if len(hyp) == 0 || len(ref) == 0 {
		return 0
	}

	matches := align(hyp, ref, s.stemmer, s.synonyms)
	m := float64(len(matches))
	if m == 0 {
		return 0
	}

	precision := m / float64(len(hyp))
	recall := m / float64(len(ref))
	fmean := precision * recall / (s.config.Alpha*precision + (1-s.config.Alpha)*recall)

	fragFrac := float64(countChunks(matches)) / m
	penalty := s.config.Gamma * math.Pow(fragFrac, s.config.Beta)
	return (1 - penalty) * fmean
}
