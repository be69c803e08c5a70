package ports

// Stemmer reduces a word to its stem.
type Stemmer interface {
	Stem(word string) string
}

// SynonymSource returns the known synonyms of a word, not including the word itself.
type SynonymSource interface {
	Synonyms(word string) []string
}
