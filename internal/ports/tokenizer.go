package ports

// Tokenizer splits a segment into the tokens a metric compares.
type Tokenizer interface {
	Tokenize(text string) []string
}
