// Package report renders evaluation results.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/baditaflorin/go_nlg_eval/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// Format selects an output rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// Round rounds the exact binary value of v to the given number of decimal places.
// Ties that are exact in binary round to even.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Rounded returns a copy of r with every value rounded to two decimals.
func Rounded(r domain.Report) domain.Report {
	out := domain.Report{Scores: make([]domain.Score, len(r.Scores))}
	for i, s := range r.Scores {
		out.Scores[i] = domain.Score{Metric: s.Metric, Value: Round(s.Value, 2)}
	}
	return out
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r domain.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Rounded(r))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Rounded(r)); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable, "":
		s := FromReport(r).String()
		if s == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, s)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
