// Package corpus loads hypothesis and reference files into an aligned corpus.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_nlg_eval/internal/core/domain"
)

// ErrInvalidNumRefs is returned for a reference count below one.
var ErrInvalidNumRefs = errors.New("number of references must be at least 1")

// ErrInvalidUTF8 is returned for input files that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("not valid UTF-8")

// ReferencePaths returns the reference files for prefix. With more than one
// reference the files are prefix0, prefix1, ...; a single reference is prefix itself.
func ReferencePaths(prefix string, numRefs int) []string {
	if numRefs == 1 {
		return []string{prefix}
	}
	paths := make([]string, 0, numRefs)
	for i := 0; i < numRefs; i++ {
		paths = append(paths, prefix+strconv.Itoa(i))
	}
	return paths
}

// Load reads the reference files and the hypothesis file.
// Line j of every reference file lands in reference group j, in file order.
// Line counts are not checked against each other.
func Load(refsPath, hypPath string, numRefs int) (domain.Corpus, error) {
	if numRefs < 1 {
		return domain.Corpus{}, fmt.Errorf("%w: got %d", ErrInvalidNumRefs, numRefs)
	}

	var references [][]string
	for _, path := range ReferencePaths(refsPath, numRefs) {
		lines, err := readLines(path)
		if err != nil {
			return domain.Corpus{}, fmt.Errorf("reading reference file %q: %w", path, err)
		}
		for j, line := range lines {
			if j < len(references) {
				references[j] = append(references[j], line)
			} else {
				references = append(references, []string{line})
			}
		}
	}

	hypotheses, err := readLines(hypPath)
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("reading hypothesis file %q: %w", hypPath, err)
	}

	return domain.Corpus{
		Hypotheses: hypotheses,
		References: references,
	}, nil
}

// readLines splits a file on "\n". A trailing newline yields a trailing empty line.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%q is %w", path, ErrInvalidUTF8)
	}
	return strings.Split(string(data), "\n"), nil
}
