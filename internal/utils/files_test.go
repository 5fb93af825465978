package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileReplacesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "README.md")
	require.NoError(t, SafeWriteFile(p, []byte("first")))
	require.NoError(t, SafeWriteFile(p, []byte("second")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "README.md", entries[0].Name())
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	err := SafeWriteFile(filepath.Join(t.TempDir(), "nope", "x.png"), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write temp file")
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSafeFileName(t *testing.T) {
	cases := map[string]string{
		"score":          "score",
		"Life Ladder":    "Life Ladder",
		"a/b":            "a_b",
		`c:\d`:           "c__d",
		"what?":          "what_",
		"  ":             "_",
		"..":             "_",
		"tab\there":      "tab_here",
		"Ünïcödé":        "Ünïcödé",
		"rating (1-5)":   "rating (1-5)",
		"pipe|separated": "pipe_separated",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeFileName(in), in)
	}
}
