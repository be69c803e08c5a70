package ports

import "context"

//go:generate go tool mockgen -source=scorer.go -destination=mocks/scorer_mock.go -package=mocks

// Scorer computes a corpus-level metric. predictions[j] is scored against the
// reference group references[j].
type Scorer interface {
	Name() string
	Score(ctx context.Context, predictions []string, references [][]string) (float64, error)
}
