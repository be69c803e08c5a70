package meteor

import (
	"sort"

	"github.com/baditaflorin/go_nlg_eval/internal/ports"
)

// token is a word with its position in the original segment.
type token struct {
	pos  int
	word string
}

// match pairs a hypothesis position with a reference position.
type match struct {
	hyp, ref int
}

func enumerate(words []string) []token {
	out := make([]token, len(words))
	for i, w := range words {
		out[i] = token{pos: i, word: w}
	}
	return out
}

// matchExact pairs equal words, scanning both sides from the end. Matched
// tokens are removed from hyp and ref.
func matchExact(hyp, ref []token) ([]match, []token, []token) {
	return matchBy(hyp, ref, sameWord)
}

// matchStem pairs words whose stems are equal.
func matchStem(hyp, ref []token, stemmer ports.Stemmer) ([]match, []token, []token) {
	return matchBy(stemAll(hyp, stemmer), stemAll(ref, stemmer), sameWord)
}

// matchSynonym pairs a hypothesis word with a reference word that is the word
// itself or one of its synonyms.
func matchSynonym(hyp, ref []token, source ports.SynonymSource) ([]match, []token, []token) {
	return matchBy(hyp, ref, func(h token) func(string) bool {
		syns := map[string]struct{}{h.word: {}}
		for _, s := range source.Synonyms(h.word) {
			syns[s] = struct{}{}
		}
		return func(r string) bool {
			_, ok := syns[r]
			return ok
		}
	})
}

func sameWord(h token) func(string) bool {
	return func(r string) bool { return r == h.word }
}

// matchBy runs the greedy reverse scan shared by every stage.
func matchBy(hyp, ref []token, matcher func(token) func(string) bool) ([]match, []token, []token) {
	hyp = append([]token(nil), hyp...)
	ref = append([]token(nil), ref...)
	var matches []match

	for i := len(hyp) - 1; i >= 0; i-- {
		accepts := matcher(hyp[i])
		for j := len(ref) - 1; j >= 0; j-- {
			if accepts(ref[j].word) {
				matches = append(matches, match{hyp: hyp[i].pos, ref: ref[j].pos})
				hyp = append(hyp[:i], hyp[i+1:]...)
				ref = append(ref[:j], ref[j+1:]...)
				break
			}
		}
	}
	return matches, hyp, ref
}

func stemAll(tokens []token, stemmer ports.Stemmer) []token {
	out := make([]token, len(tokens))
	for i, t := range tokens {
		out[i] = token{pos: t.pos, word: stemmer.Stem(t.word)}
	}
	return out
}

// align runs the exact, stem and synonym stages in order and returns the
// matches sorted by hypothesis position.
func align(hypWords, refWords []string, stemmer ports.Stemmer, synonyms ports.SynonymSource) []match {
	hyp, ref := enumerate(hypWords), enumerate(refWords)

	all, hyp, ref := matchExact(hyp, ref)
	if stemmer != nil {
		var m []match
		m, hyp, ref = matchStem(hyp, ref, stemmer)
		// unmatched words stay stemmed for the synonym stage
		all = append(all, m...)
	}
	if synonyms != nil {
		var m []match
		m, _, _ = matchSynonym(hyp, ref, synonyms)
		all = append(all, m...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].hyp < all[j].hyp })
	return all
}

// countChunks counts maximal runs of matches that are contiguous on both sides.
func countChunks(matches []match) int {
	if len(matches) == 0 {
		return 0
	}
	chunks := 1
	for i := 0; i < len(matches)-1; i++ {
		if matches[i+1].hyp == matches[i].hyp+1 && matches[i+1].ref == matches[i].ref+1 {
			continue
		}
		chunks++
	}
	return chunks
}
