package stemmer

import (
	porterstemmer "github.com/reiver/go-porterstemmer"

	"github.com/baditaflorin/go_nlg_eval/internal/ports"
)

// Porter applies the Porter stemming algorithm.
type Porter struct{}

// NewPorter creates a Porter stemmer.
func NewPorter() ports.Stemmer {
	return Porter{}
}

// Stem returns the Porter stem of word.
func (Porter) Stem(word string) string {
	if word == "" {
		return word
	}
	return porterstemmer.StemString(word)
}
