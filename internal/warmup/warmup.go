// Package warmup exercises scorers before they serve real traffic.
package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/baditaflorin/go_nlg_eval/internal/ports"
	"golang.org/x/sync/errgroup"
)

// WarmupConfig defines configuration for warming up scorers
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Number of segments in the generated corpus
	Segments int
	// Approximate size in bytes of each generated segment
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     20,
		Segments:       16,
		SampleTextSize: 200,
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles scorer warmup operations
type Manager struct {
	logger  ports.Logger
	scorers []ports.Scorer
	config  WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterScorer adds a scorer to be warmed up
func (wm *Manager) RegisterScorer(scorer ports.Scorer) {
	wm.scorers = append(wm.scorers, scorer)
}

// WarmUp runs every registered scorer over a generated corpus and returns
// the number of Score calls that completed without error.
func (wm *Manager) WarmUp(ctx context.Context) int {
	if len(wm.scorers) == 0 {
		return 0
	}

	startTime := time.Now()
	wm.logger.Info("Starting scorer warmup",
		"scorers", len(wm.scorers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	predictions, references := generateCorpus(wm.config.Segments, wm.config.SampleTextSize)

	var calls atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < wm.config.Concurrency; i++ {
		g.Go(func() error {
			for j := 0; j < wm.config.Iterations; j++ {
				for _, scorer := range wm.scorers {
					if gctx.Err() != nil {
						return nil
					}
					if _, err := scorer.Score(gctx, predictions, references); err != nil {
						wm.logger.Debug("Warmup call failed", "metric", scorer.Name(), "error", err)
						continue
					}
					calls.Add(1)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("Scorer warmup completed",
		"calls", calls.Load(),
		"duration", time.Since(startTime),
	)
	return int(calls.Load())
}

// Helper functions for generating test data

// generateCorpus builds segments hypotheses, each paired with an identical,
// a lightly edited and a heavily edited reference.
func generateCorpus(segments, size int) ([]string, [][]string) {
	predictions := make([]string, segments)
	references := make([][]string, segments)
	for i := range segments {
		original := generateSampleText(size, i)
		predictions[i] = original
		references[i] = []string{
			original,
			generateSimilarText(original, 0.1), // 10% difference
			generateSimilarText(original, 0.5), // 50% difference
		}
	}
	return predictions, references
}

// generateSampleText creates sample text of about the specified size,
// starting offset words into the vocabulary
func generateSampleText(size, offset int) string {
	words := []string{
		"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
		"hello", "world", "lorem", "ipsum", "dolor", "sit", "amet", "consectetur",
		"adipiscing", "elit", "sed", "do", "eiusmod", "tempor", "incididunt",
		"ut", "labore", "et", "dolore", "magna", "aliqua",
	}

	var sb strings.Builder
	wordsNeeded := max(size/5, 1) // Assuming average word length of 5

	for i := 0; i < wordsNeeded; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(words[(i+offset)%len(words)])
	}

	return sb.String()
}

// generateSimilarText creates a text similar to the original with the specified difference ratio
func generateSimilarText(original string, diffRatio float64) string {
	words := strings.Fields(original)
	changeCount := int(float64(len(words)) * diffRatio)

	replacements := []string{
		"replaced", "modified", "changed", "altered", "updated",
		"different", "unique", "new", "fresh", "novel",
	}

	newWords := make([]string, len(words))
	copy(newWords, words)

	for i := 0; i < changeCount && i < len(newWords); i++ {
		newWords[i] = replacements[i%len(replacements)]
	}

	return strings.Join(newWords, " ")
}
