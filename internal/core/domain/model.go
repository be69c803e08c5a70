package domain

// Corpus holds the aligned evaluation data for one run.
// References[j] is the j-th reference group: line j of every reference file, in file order.
type Corpus struct {
	Hypotheses []string
	References [][]string
}

// Len returns the number of hypothesis/reference pairs a scorer will see.
// Line-count mismatches are tolerated and the shorter side wins.
func (c Corpus) Len() int {
	if len(c.Hypotheses) < len(c.References) {
		return len(c.Hypotheses)
	}
	return len(c.References)
}

// Score is one computed metric value.
type Score struct {
	Metric string  `json:"metric" yaml:"metric"`
	Value  float64 `json:"value" yaml:"value"`
}

// Report holds the computed scores of a run in evaluation order.
type Report struct {
	Scores []Score `json:"scores" yaml:"scores"`
}

// Add appends a score to the report.
func (r *Report) Add(metric string, value float64) {
	r.Scores = append(r.Scores, Score{Metric: metric, Value: value})
}

// Get returns the score recorded for metric.
func (r Report) Get(metric string) (float64, bool) {
	for _, s := range r.Scores {
		if s.Metric == metric {
			return s.Value, true
		}
	}
	return 0, false
}

// Len returns the number of computed metrics.
func (r Report) Len() int {
	return len(r.Scores)
}
