package dataset

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownLabels(t *testing.T) {
	cases := map[string]Dataset{
		"goodreads.csv":                 Goodreads,
		"data/GoodReads_2024.CSV":       Goodreads,
		"happiness.csv":                 Happiness,
		"/tmp/World-HAPPINESS-report":   Happiness,
		"media.csv":                     Media,
		"exports/social_media_dump.txt": Media,
		// first match wins in goodreads, happiness, media order
		"media_happiness_goodreads.csv": Goodreads,
		"happiness-media.csv":           Happiness,
	}
	for path, want := range cases {
		got, err := Resolve(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestResolveRejectsUnknown(t *testing.T) {
	for _, path := range []string{"unknown.csv", "", "good-reads.csv", "medi.csv"} {
		_, err := Resolve(path)
		require.Error(t, err, path)
		var inv *InvalidDatasetError
		require.True(t, errors.As(err, &inv), path)
		assert.Equal(t, path, inv.Path)
		assert.Contains(t, err.Error(), "Invalid dataset")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		d, err := Resolve("Happiness.csv")
		require.NoError(t, err)
		assert.Equal(t, Happiness, d)
	}
}

func TestOutputDir(t *testing.T) {
	assert.Equal(t, "media", Media.OutputDir(""))
	assert.Equal(t, filepath.Join("out", "goodreads"), Goodreads.OutputDir("out"))
	assert.Equal(t, "happiness", Happiness.String())
	assert.Equal(t, "dataset(0)", Dataset(0).String())
}
