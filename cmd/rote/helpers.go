package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"rote/internal/config"
	"rote/internal/fileutil"
	"rote/internal/notifications"
)

const lockFileName = ".rote.lock"

// withOutputLock serializes commands that scan or write one output directory.
// The lock is held for the duration of fn; a busy lock fails immediately
// instead of queueing behind another run.
func withOutputLock(dir string, fn func() error) error {
	if err := fileutil.EnsureDir(dir); err != nil {
		return fmt.Errorf("prepare output directory %s: %w", dir, err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("output directory %s is in use by another rote run", dir)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// overrideOutputDir returns a copy of cfg pointing at a different output
// directory, leaving the shared config untouched.
func overrideOutputDir(cfg *config.Config, dir string) (*config.Config, error) {
	if strings.TrimSpace(dir) == "" {
		return cfg, nil
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	clone := *cfg
	clone.Paths.OutputDir = expanded
	return &clone, nil
}

func formatMillis(ms int64) string {
	return notifications.FormatDuration(time.Duration(ms) * time.Millisecond)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
