package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReferencePaths(t *testing.T) {
	assert.Equal(t, []string{"refs/ref"}, ReferencePaths("refs/ref", 1))
	assert.Equal(t, []string{"refs/ref0", "refs/ref1", "refs/ref2"}, ReferencePaths("refs/ref", 3))
}

func TestLoadSingleReference(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "reference")
	hyp := filepath.Join(dir, "hypothesis")
	writeFile(t, ref, "the cat sat\na dog barked\nbirds fly")
	writeFile(t, hyp, "the cat sat\na dog bark\nbirds")

	c, err := Load(ref, hyp, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"the cat sat", "a dog bark", "birds"}, c.Hypotheses)
	require.Len(t, c.References, 3)
	for j, group := range c.References {
		assert.Len(t, group, 1)
		assert.Equal(t, []string{"the cat sat", "a dog barked", "birds fly"}[j], group[0])
	}
}

func TestLoadMultipleReferences(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "reference")
	writeFile(t, prefix+"0", "r0 line0\nr0 line1")
	writeFile(t, prefix+"1", "r1 line0\nr1 line1")
	writeFile(t, prefix+"2", "r2 line0\nr2 line1")
	hyp := filepath.Join(dir, "hypothesis")
	writeFile(t, hyp, "h0\nh1")

	c, err := Load(prefix, hyp, 3)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"r0 line0", "r1 line0", "r2 line0"},
		{"r0 line1", "r1 line1", "r2 line1"},
	}, c.References)
	assert.Equal(t, 2, c.Len())
}

func TestLoadKeepsTrailingEmptyLine(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref")
	hyp := filepath.Join(dir, "hyp")
	writeFile(t, ref, "a\nb\n")
	writeFile(t, hyp, "a\nb\n")

	c, err := Load(ref, hyp, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", ""}, c.Hypotheses)
	assert.Len(t, c.References, 3)
}

func TestLoadToleratesMismatchedLengths(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "ref")
	writeFile(t, prefix+"0", "a\nb\nc")
	writeFile(t, prefix+"1", "x")
	hyp := filepath.Join(dir, "hyp")
	writeFile(t, hyp, "a\nb")

	c, err := Load(prefix, hyp, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "x"}, {"b"}, {"c"}}, c.References)
	assert.Equal(t, 2, c.Len())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref")
	writeFile(t, ref, "a")

	t.Run("missing hypothesis", func(t *testing.T) {
		_, err := Load(ref, filepath.Join(dir, "nope"), 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "hypothesis")
	})

	t.Run("missing indexed reference", func(t *testing.T) {
		_, err := Load(ref, ref, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "ref0")
	})

	t.Run("invalid count", func(t *testing.T) {
		_, err := Load(ref, ref, 0)
		assert.ErrorIs(t, err, ErrInvalidNumRefs)
	})
}

func TestLoadRejectsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref")
	hyp := filepath.Join(dir, "hyp")
	writeFile(t, ref, "caf\xe9 au lait")
	writeFile(t, hyp, "café au lait")

	_, err := Load(ref, hyp, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "reading reference file")

	writeFile(t, ref, "café au lait")
	writeFile(t, hyp, "caf\xe9")
	_, err = Load(ref, hyp, 1)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
