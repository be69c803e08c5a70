// Package bleu implements corpus-level BLEU over clipped n-gram precisions
// with a brevity penalty against the shortest reference of each segment.
package bleu

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/baditaflorin/go_nlg_eval/internal/pool"
	"github.com/baditaflorin/go_nlg_eval/internal/ports"
)

// Name is the registry name of the metric.
const Name = "bleu"

// ErrEmptyCorpus is returned when the hypothesis or reference side has no tokens.
var ErrEmptyCorpus = errors.New("bleu: translation or reference length is zero")

// Config holds configuration for the BLEU scorer.
type Config struct {
	// MaxOrder is the largest n-gram order.
	MaxOrder int `mapstructure:"max_order" yaml:"max_order"`
	// Smooth applies add-one smoothing to every precision.
	Smooth bool `mapstructure:"smooth" yaml:"smooth"`
	// EffectiveOrder leaves orders without any candidate n-gram out of the geometric mean.
	EffectiveOrder bool `mapstructure:"effective_order" yaml:"effective_order"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		MaxOrder:       4,
		Smooth:         false,
		EffectiveOrder: true,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.MaxOrder < 1 {
		return errors.New("bleu: max_order must be at least 1")
	}
	return nil
}

// Result holds the details of a BLEU computation.
type Result struct {
	// Score is the BLEU score as a fraction in [0, 1].
	Score             float64
	Precisions        []float64
	BrevityPenalty    float64
	LengthRatio       float64
	TranslationLength int
	ReferenceLength   int
}

// Scorer computes corpus BLEU.
type Scorer struct {
	config    Config
	tokenizer ports.Tokenizer
	logger    ports.Logger
}

// NewScorer creates a BLEU scorer.
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

// Score returns the corpus BLEU as a fraction.
func (s *Scorer) Score(ctx context.Context, predictions []string, references [][]string) (float64, error) {
	res, err := s.Compute(ctx, predictions, references)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// Compute calculates corpus BLEU and its components.
func (s *Scorer) Compute(ctx context.Context, predictions []string, references [][]string) (Result, error) {
	maxOrder := s.config.MaxOrder
	matches := make([]int, maxOrder)
	possible := make([]int, maxOrder)
	translationLength, referenceLength := 0, 0

	n := min(len(predictions), len(references))
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		hyp := s.tokenizer.Tokenize(predictions[i])
		refs := make([][]string, len(references[i]))
		for k, r := range references[i] {
			refs[k] = s.tokenizer.Tokenize(r)
		}

		translationLength += len(hyp)
		referenceLength += shortest(refs)

		maxRefCounts := make(map[string]int)
		for _, ref := range refs {
			for g, c := range countNgrams(ref, maxOrder) {
				if c > maxRefCounts[g] {
					maxRefCounts[g] = c
				}
			}
		}

		for g, c := range countNgrams(hyp, maxOrder) {
			if clipped := min(c, maxRefCounts[g]); clipped > 0 {
				matches[ngramOrder(g)-1] += clipped
			}
		}
		for order := 1; order <= maxOrder; order++ {
			if p := len(hyp) - order + 1; p > 0 {
				possible[order-1] += p
			}
		}
	}

	s.logger.Debug("Collected BLEU statistics",
		"segments", n,
		"matches", matches,
		"possible", possible,
		"translation_length", translationLength,
		"reference_length", referenceLength,
	)

	if translationLength == 0 || referenceLength == 0 {
		return Result{}, ErrEmptyCorpus
	}

	precisions := make([]float64, maxOrder)
	logSum, orders := 0.0, 0
	zero := false
	for i := 0; i < maxOrder; i++ {
		switch {
		case s.config.Smooth:
			precisions[i] = float64(matches[i]+1) / float64(possible[i]+1)
		case possible[i] > 0:
			precisions[i] = float64(matches[i]) / float64(possible[i])
		default:
			precisions[i] = 0
		}

		if !s.config.Smooth && possible[i] == 0 && s.config.EffectiveOrder {
			continue
		}
		if precisions[i] == 0 {
			zero = true
			continue
		}
		logSum += math.Log(precisions[i])
		orders++
	}

	geoMean := 0.0
	if !zero && orders > 0 {
		geoMean = math.Exp(logSum / float64(orders))
	}

	ratio := float64(translationLength) / float64(referenceLength)
	bp := 1.0
	if ratio <= 1.0 {
		bp = math.Exp(1 - 1/ratio)
	}

	return Result{
		Score:             geoMean * bp,
		Precisions:        precisions,
		BrevityPenalty:    bp,
		LengthRatio:       ratio,
		TranslationLength: translationLength,
		ReferenceLength:   referenceLength,
	}, nil
}

var keyPool = pool.NewBufferPool(64)

// countNgrams counts every n-gram of order 1..maxOrder. Keys are space joined tokens.
func countNgrams(tokens []string, maxOrder int) map[string]int {
	counts := make(map[string]int)
	buf := keyPool.Get()
	defer keyPool.Put(buf)

	for order := 1; order <= maxOrder; order++ {
		for i := 0; i+order <= len(tokens); i++ {
			key := (*buf)[:0]
			for k, tok := range tokens[i : i+order] {
				if k > 0 {
					key = append(key, ' ')
				}
				key = append(key, tok...)
			}
			*buf = key
			counts[string(key)]++
		}
	}
	return counts
}

func ngramOrder(key string) int {
	return strings.Count(key, " ") + 1
}

func shortest(refs [][]string) int {
	if len(refs) == 0 {
		return 0
	}
	m := len(refs[0])
	for _, r := range refs[1:] {
		m = min(m, len(r))
	}
	return m
}
