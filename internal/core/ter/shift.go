package ter

import (
	"iter"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// editOptions prices insertions, deletions and substitutions at one edit each.
var editOptions = levenshtein.DefaultOptionsWithSub

// vocabulary maps words to runes so word sequences can go through the
// rune-based edit distance.
type vocabulary map[string]rune

func (v vocabulary) encode(words []string) []rune {
	out := make([]rune, len(words))
	for i, w := range words {
		r, ok := v[w]
		if !ok {
			r = rune(len(v))
			v[w] = r
		}
		out[i] = r
	}
	return out
}

func editDistance(hyp, ref []rune) int {
	return levenshtein.DistanceForStrings(hyp, ref, editOptions)
}

// alignment describes an edit path from hypothesis to reference.
// align[r] is the hypothesis position paired with (or preceding) reference position r.
type alignment struct {
	align  []int
	hypErr []int
	refErr []int
}

func align(hyp, ref []rune) alignment {
	script := levenshtein.EditScriptForStrings(hyp, ref, editOptions)

	a := alignment{
		align:  make([]int, 0, len(ref)),
		hypErr: make([]int, 0, len(hyp)),
		refErr: make([]int, 0, len(ref)),
	}
	posH, posR := -1, -1
	for _, op := range script {
		switch op {
		case levenshtein.Match:
			posH++
			posR++
			a.align = append(a.align, posH)
			a.hypErr = append(a.hypErr, 0)
			a.refErr = append(a.refErr, 0)
		case levenshtein.Sub:
			posH++
			posR++
			a.align = append(a.align, posH)
			a.hypErr = append(a.hypErr, 1)
			a.refErr = append(a.refErr, 1)
		case levenshtein.Del:
			// hypothesis word without a reference counterpart
			posH++
			a.hypErr = append(a.hypErr, 1)
		case levenshtein.Ins:
			// reference word missing from the hypothesis
			posR++
			a.align = append(a.align, posH)
			a.refErr = append(a.refErr, 1)
		}
	}
	return a
}

// shiftPair is a run of length words equal in hypothesis (at startH) and reference (at startR).
type shiftPair struct {
	startH, startR, length int
}

func shiftedPairs(hyp, ref []rune, maxSize, maxDist int) iter.Seq[shiftPair] {
	return func(yield func(shiftPair) bool) {
		for startH := range hyp {
			for startR := range ref {
				if abs(startR-startH) > maxDist {
					continue
				}
				for length := 0; length < maxSize && hyp[startH+length] == ref[startR+length]; {
					length++
					if !yield(shiftPair{startH, startR, length}) {
						return
					}
					if startH+length == len(hyp) || startR+length == len(ref) {
						break
					}
				}
			}
		}
	}
}

// performShift moves words[start:start+length] so that it begins at target.
func performShift(words []rune, start, length, target int) []rune {
	clip := func(i int) int { return min(i, len(words)) }

	out := make([]rune, 0, len(words))
	switch {
	case target < start:
		out = append(out, words[:target]...)
		out = append(out, words[start:start+length]...)
		out = append(out, words[target:start]...)
		out = append(out, words[start+length:]...)
	case target > start+length:
		out = append(out, words[:start]...)
		out = append(out, words[start+length:target]...)
		out = append(out, words[start:start+length]...)
		out = append(out, words[target:]...)
	default:
		out = append(out, words[:start]...)
		out = append(out, words[start+length:clip(length+target)]...)
		out = append(out, words[start:start+length]...)
		out = append(out, words[clip(length+target):]...)
	}
	return out
}

type candidate struct {
	delta, length, startH, target int
	words                         []rune
}

// better orders candidates by gain, then longer blocks, then earlier positions.
func (c candidate) better(o candidate) bool {
	if c.delta != o.delta {
		return c.delta > o.delta
	}
	if c.length != o.length {
		return c.length > o.length
	}
	if c.startH != o.startH {
		return c.startH < o.startH
	}
	return c.target < o.target
}

// bestShift finds the block shift that reduces the edit distance the most.
// It returns the gain, the shifted hypothesis and the updated candidate count.
func (s *Scorer) bestShift(hyp, ref []rune, checked int) (int, []rune, int) {
	pre := editDistance(hyp, ref)
	a := align(hyp, ref)

	var best *candidate
	for p := range shiftedPairs(hyp, ref, s.config.MaxShiftSize, s.config.MaxShiftDist) {
		// only shift words that are wrong in place and land on reference words that are unmatched
		if sum(a.hypErr[p.startH:p.startH+p.length]) == 0 {
			continue
		}
		if sum(a.refErr[p.startR:p.startR+p.length]) == 0 {
			continue
		}
		if p.startH <= a.align[p.startR] && a.align[p.startR] < p.startH+p.length {
			continue
		}

		prevIdx := -1
		for offset := -1; offset < p.length; offset++ {
			var idx int
			switch pos := p.startR + offset; {
			case pos == -1:
				idx = 0
			case pos < len(a.align):
				idx = a.align[pos] + 1
			default:
				idx = -1
			}
			if idx == -1 {
				break
			}
			if idx == prevIdx {
				continue
			}
			prevIdx = idx

			shifted := performShift(hyp, p.startH, p.length, idx)
			c := candidate{
				delta:  pre - editDistance(shifted, ref),
				length: p.length,
				startH: p.startH,
				target: idx,
				words:  shifted,
			}
			checked++
			if best == nil || c.better(*best) {
				best = &c
			}
		}
		if checked >= s.config.MaxShiftCandidates {
			break
		}
	}

	if best == nil {
		return 0, hyp, checked
	}
	return best.delta, best.words, checked
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
