package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture writes a one-sentence hypothesis and a single reference file.
func fixture(t *testing.T) (ref, hyp string) {
	t.Helper()
	dir := t.TempDir()
	ref = filepath.Join(dir, "ref.txt")
	hyp = filepath.Join(dir, "hyp.txt")
	require.NoError(t, os.WriteFile(ref, []byte("the cat sat"), 0o644))
	require.NoError(t, os.WriteFile(hyp, []byte("the cat sat"), 0o644))
	return ref, hyp
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(rewriteLegacyArgs(args))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRewriteLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"separate value", []string{"-nr", "2"}, []string{"--num_refs", "2"}},
		{"inline value", []string{"-nr=3", "-m", "bleu"}, []string{"--num_refs=3", "-m", "bleu"}},
		{"long form untouched", []string{"--num_refs", "1"}, []string{"--num_refs", "1"}},
		{"after terminator", []string{"--", "-nr"}, []string{"--", "-nr"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteLegacyArgs(tt.in))
		})
	}
}

func TestEvaluateTable(t *testing.T) {
	ref, hyp := fixture(t)

	stdout, _, err := run(t, "-R", ref, "-H", hyp, "-nr", "1", "-m", "bleu,TER")
	require.NoError(t, err)

	want := "Reading input...\n" +
		"Read input finished...\n" +
		"Starting to parse inputs...\n" +
		"Finishing to parse inputs\n" +
		"Evaluation started...\n" +
		"Computing BLEU...\n" +
		"BLEU computed: 100\n" +
		"Computing TER...\n" +
		"TER computed: 0\n" +
		"Evaluation finished...\n" +
		"|   BLEU |   TER |\n" +
		"|--------+-------|\n" +
		"|    100 |     0 |\n"
	assert.Equal(t, want, stdout)
}

func TestEvaluateNumRefsSpellings(t *testing.T) {
	ref, hyp := fixture(t)

	for _, flag := range []string{"-nr=1", "--num_refs=1", "--num-refs=1"} {
		t.Run(flag, func(t *testing.T) {
			stdout, _, err := run(t, "-R", ref, "-H", hyp, flag, "-m", "bleu")
			require.NoError(t, err)
			assert.Contains(t, stdout, "|    100 |")
		})
	}
}

func TestEvaluateUnknownMetricPrintsNoTable(t *testing.T) {
	ref, hyp := fixture(t)

	stdout, _, err := run(t, "-R", ref, "-H", hyp, "-nr", "1", "-m", "foo")
	require.NoError(t, err)
	assert.Equal(t, "Reading input...\n"+
		"Read input finished...\n"+
		"Starting to parse inputs...\n"+
		"Finishing to parse inputs\n"+
		"Evaluation started...\n"+
		"Evaluation finished...\n", stdout)
}

func TestEvaluateJSON(t *testing.T) {
	ref, hyp := fixture(t)

	stdout, stderr, err := run(t, "-R", ref, "-H", hyp, "-nr", "1", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Evaluation started...")

	var got struct {
		Scores []struct {
			Metric string  `json:"metric"`
			Value  float64 `json:"value"`
		} `json:"scores"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got.Scores, 3)
	assert.Equal(t, "bleu", got.Scores[0].Metric)
	assert.Equal(t, 100.0, got.Scores[0].Value)
	assert.Equal(t, "meteor", got.Scores[1].Metric)
	assert.Equal(t, 98.15, got.Scores[1].Value)
	assert.Equal(t, "ter", got.Scores[2].Metric)
	assert.Equal(t, 0.0, got.Scores[2].Value)
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	ref, hyp := fixture(t)
	cfgPath := filepath.Join(t.TempDir(), "nlgeval.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("num_refs: 1\nmetrics: ter\n"), 0o644))

	stdout, _, err := run(t, "-R", ref, "-H", hyp, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Computing TER...")
	assert.NotContains(t, stdout, "Computing BLEU...")

	stdout, _, err = run(t, "-R", ref, "-H", hyp, "--config", cfgPath, "-m", "bleu")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Computing BLEU...")
	assert.NotContains(t, stdout, "Computing TER...")
}

func TestEvaluateErrors(t *testing.T) {
	ref, hyp := fixture(t)
	badCfg := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badCfg, []byte("unknown_key: 1\n"), 0o644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing reference flag", []string{"-H", hyp}, "reference"},
		{"missing hypothesis flag", []string{"-R", ref}, "hypothesis"},
		{"missing hypothesis file", []string{"-R", ref, "-H", hyp + ".missing", "-nr", "1"}, "hypothesis"},
		{"missing reference files", []string{"-R", ref, "-H", hyp}, "reference"},
		{"bad num_refs", []string{"-R", ref, "-H", hyp, "-nr", "x"}, "num_refs"},
		{"bad format", []string{"-R", ref, "-H", hyp, "-nr", "1", "--format", "xml"}, "format"},
		{"invalid config", []string{"-R", ref, "-H", hyp, "--config", badCfg}, "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.NotContains(t, stdout, "Evaluation started...")
		})
	}
}
