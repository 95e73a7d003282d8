// Package fileutil provides small filesystem helpers shared across the
// pipeline: directory creation, existence checks, and output-directory scans.
package fileutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnsureDir creates dir (and parents) when missing.
func EnsureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Exists reports whether path refers to an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListByExtension returns the names of regular files in dir whose extension
// equals ext (case-insensitive, leading dot included, e.g. ".mp4"). Names are
// sorted lexically. A missing directory yields an empty list.
func ListByExtension(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
