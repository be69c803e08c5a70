// Package ter implements Translation Edit Rate: the number of word edits,
// block shifts included, needed to turn a hypothesis into a reference,
// normalized by the average reference length.
package ter

import (
	"context"
	"errors"

	"github.com/baditaflorin/go_nlg_eval/internal/ports"
)

// Name is the registry name of the metric.
const Name = "ter"

// Config holds configuration for the TER scorer.
type Config struct {
	// CaseSensitive keeps case when the caller builds the tokenizer.
	CaseSensitive bool `mapstructure:"case_sensitive" yaml:"case_sensitive"`
	// MaxShiftSize is the longest block that may be shifted.
	MaxShiftSize int `mapstructure:"max_shift_size" yaml:"max_shift_size"`
	// MaxShiftDist is the largest distance between block positions in hypothesis and reference.
	MaxShiftDist int `mapstructure:"max_shift_dist" yaml:"max_shift_dist"`
	// MaxShiftCandidates bounds the shift search per segment.
	MaxShiftCandidates int `mapstructure:"max_shift_candidates" yaml:"max_shift_candidates"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		CaseSensitive:      false,
		MaxShiftSize:       10,
		MaxShiftDist:       50,
		MaxShiftCandidates: 1000,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.MaxShiftSize < 0 || c.MaxShiftDist < 0 {
		return errors.New("ter: shift limits must not be negative")
	}
	if c.MaxShiftCandidates < 1 {
		return errors.New("ter: max_shift_candidates must be at least 1")
	}
	return nil
}

// Result holds the corpus statistics behind a TER score.
type Result struct {
	// Score is 100 * Edits / ReferenceLength.
	Score           float64
	Edits           int
	ReferenceLength float64
}

// Scorer computes corpus TER.
type Scorer struct {
	config    Config
	tokenizer ports.Tokenizer
	logger    ports.Logger
}

// NewScorer creates a TER scorer.
func NewScorer(config Config, tokenizer ports.Tokenizer, logger ports.Logger) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		config:    config,
		tokenizer: tokenizer,
		logger:    logger,
	}, nil
}

// Name returns the metric name.
func (s *Scorer) Name() string {
	return Name
}

// Score returns corpus TER on a 0-100+ scale.
func (s *Scorer) Score(ctx context.Context, predictions []string, references [][]string) (float64, error) {
	res, err := s.Compute(ctx, predictions, references)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// Compute sums the best per-segment edits and the average reference lengths.
func (s *Scorer) Compute(ctx context.Context, predictions []string, references [][]string) (Result, error) {
	var res Result
	n := min(len(predictions), len(references))
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		edits, refLen := s.Segment(predictions[i], references[i])
		res.Edits += edits
		res.ReferenceLength += refLen
	}

	switch {
	case res.ReferenceLength > 0:
		res.Score = 100 * float64(res.Edits) / res.ReferenceLength
	case res.Edits > 0:
		// empty references, non-empty hypotheses
		res.Score = 100
	}

	s.logger.Debug("Computed TER",
		"segments", n,
		"edits", res.Edits,
		"reference_length", res.ReferenceLength,
	)
	return res, nil
}

// Segment returns the fewest edits over all references and the average reference length.
func (s *Scorer) Segment(hypothesis string, references []string) (int, float64) {
	if len(references) == 0 {
		return 0, 0
	}

	hyp := s.tokenizer.Tokenize(hypothesis)
	best, totalLen := -1, 0
	for _, r := range references {
		ref := s.tokenizer.Tokenize(r)
		edits := s.editRate(hyp, ref)
		totalLen += len(ref)
		if best < 0 || edits < best {
			best = edits
		}
	}
	return best, float64(totalLen) / float64(len(references))
}

// editRate returns shifts plus edit distance for one hypothesis/reference pair.
func (s *Scorer) editRate(hypWords, refWords []string) int {
	if len(refWords) == 0 {
		return len(hypWords)
	}

	vocab := make(vocabulary)
	hyp, ref := vocab.encode(hypWords), vocab.encode(refWords)

	shifts, checked := 0, 0
	for {
		var delta int
		var shifted []rune
		delta, shifted, checked = s.bestShift(hyp, ref, checked)
		if checked >= s.config.MaxShiftCandidates || delta <= 0 {
			break
		}
		shifts++
		hyp = shifted
	}
	return shifts + editDistance(hyp, ref)
}
