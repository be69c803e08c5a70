package tokenizer

import (
	"strings"

	"github.com/baditaflorin/go_nlg_eval/internal/ports"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Word splits text with the 13a rules and lower-cases every token.
type Word struct{}

// NewWord creates a lower-casing word tokenizer.
func NewWord() ports.Tokenizer {
	return Word{}
}

// Tokenize returns lower-cased word tokens.
func (Word) Tokenize(text string) []string {
	// cases.Caser keeps state, so each call gets its own.
	return strings.Fields(cases.Lower(language.Und).String(normalize13a(text)))
}

// Whitespace splits on Unicode whitespace, optionally lower-casing first.
type Whitespace struct {
	Lowercase bool
}

// NewWhitespace creates a whitespace tokenizer.
func NewWhitespace(lowercase bool) ports.Tokenizer {
	return Whitespace{Lowercase: lowercase}
}

// Tokenize returns the whitespace separated fields of text.
func (w Whitespace) Tokenize(text string) []string {
	if w.Lowercase {
		text = cases.Lower(language.Und).String(text)
	}
	return strings.Fields(text)
}
