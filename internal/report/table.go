package report

import (
	"strconv"
	"strings"

	"github.com/baditaflorin/go_nlg_eval/internal/core/domain"
	"github.com/mattn/go-runewidth"
)

// headerPadding is the extra width reserved around every header.
const headerPadding = 2

// Table is a single-row score table.
type Table struct {
	Headers []string
	Values  []float64
}

// FromReport builds the table: upper-cased metric names over values rounded to two decimals.
func FromReport(r domain.Report) Table {
	t := Table{
		Headers: make([]string, 0, r.Len()),
		Values:  make([]float64, 0, r.Len()),
	}
	for _, s := range r.Scores {
		t.Headers = append(t.Headers, strings.ToUpper(s.Metric))
		t.Values = append(t.Values, Round(s.Value, 2))
	}
	return t
}

// String renders the table in org-mode layout with right-aligned columns.
// An empty table renders as the empty string.
func (t Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	cells := make([]string, len(t.Values))
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h) + headerPadding
		if i < len(t.Values) {
			cells[i] = formatValue(t.Values[i])
			widths[i] = max(widths[i], runewidth.StringWidth(cells[i]))
		}
	}

	var b strings.Builder
	writeRow(&b, t.Headers, widths)
	b.WriteString("\n|")
	for i, w := range widths {
		if i > 0 {
			b.WriteString("+")
		}
		b.WriteString(strings.Repeat("-", w+2))
	}
	b.WriteString("|\n")
	writeRow(&b, cells, widths)
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("|")
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(" ")
		b.WriteString(padLeft(cell, w))
		b.WriteString(" |")
	}
}

// formatValue prints v with up to six significant digits and no trailing zeros.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// padLeft pads s with spaces so its display width reaches width.
func padLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", width-sw) + s
}
