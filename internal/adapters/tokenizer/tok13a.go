package tokenizer

import (
	"regexp"
	"strings"

	"github.com/baditaflorin/go_nlg_eval/internal/ports"
)

// mteval-v13a rules, applied in order.
var rules13a = []struct {
	re   *regexp.Regexp
	repl string
}{
	// punctuation except . , - '
	{regexp.MustCompile("([\\{-\\~\\[-\\` -\\&\\(-\\+\\:-\\@\\/])"), " ${1} "},
	// period and comma unless preceded by a digit
	{regexp.MustCompile(`([^0-9])([\.,])`), "${1} ${2} "},
	// period and comma unless followed by a digit
	{regexp.MustCompile(`([\.,])([^0-9])`), " ${1} ${2}"},
	// dash when preceded by a digit
	{regexp.MustCompile(`([0-9])(-)`), "${1} ${2} "},
}

var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// Tok13a implements the mteval-v13a tokenization used by BLEU.
type Tok13a struct{}

// NewTok13a creates a 13a tokenizer.
func NewTok13a() ports.Tokenizer {
	return Tok13a{}
}

// Tokenize splits text the way mteval-v13a does. Case is preserved.
func (Tok13a) Tokenize(text string) []string {
	return strings.Fields(normalize13a(text))
}

func normalize13a(line string) string {
	line = strings.ReplaceAll(line, "<skipped>", "")
	line = strings.ReplaceAll(line, "-\n", "")
	line = strings.ReplaceAll(line, "\n", " ")
	if strings.Contains(line, "&") {
		line = entityReplacer.Replace(line)
	}

	line = " " + line + " "
	for _, rule := range rules13a {
		line = rule.re.ReplaceAllString(line, rule.repl)
	}
	return line
}
