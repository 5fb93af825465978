package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dataset identifies one of the supported input datasets.
type Dataset int

const (
	Goodreads Dataset = iota + 1
	Happiness
	Media
)

// known lists datasets in match priority order.
var known = []Dataset{Goodreads, Happiness, Media}

// String returns the canonical label, which doubles as the output directory name.
func (d Dataset) String() string {
	switch d {
	case Goodreads:
		return "goodreads"
	case Happiness:
		return "happiness"
	case Media:
		return "media"
	default:
		return fmt.Sprintf("dataset(%d)", int(d))
	}
}

// OutputDir returns the directory under root where artifacts for d are written.
func (d Dataset) OutputDir(root string) string {
	if root == "" {
		root = "."
	}
	return filepath.Join(root, d.String())
}

// InvalidDatasetError reports a path that matches none of the known datasets.
type InvalidDatasetError struct {
	Path string
}

func (e *InvalidDatasetError) Error() string {
	return "Invalid dataset. Please use goodreads.csv, happiness.csv, or media.csv."
}

// Resolve picks the dataset whose label appears anywhere in the lowercased path.
// Only the path string is inspected, never the file contents.
func Resolve(path string) (Dataset, error) {
	lower := strings.ToLower(path)
	for _, d := range known {
		if strings.Contains(lower, d.String()) {
			return d, nil
		}
	}
	return 0, &InvalidDatasetError{Path: path}
}
