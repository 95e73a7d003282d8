package preflight

import (
	"context"
	"fmt"
	"strings"

	"rote/internal/config"
	"rote/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all environment checks for the given config: the external
// binaries generation shells out to, the fonts the renderer draws with, and
// the directories runs write into.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, resultFromStatus(status))
	}
	results = append(results,
		CheckFontFile("Regular font", cfg.Video.FontRegular),
		CheckFontFile("Bold font", cfg.Video.FontBold),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	)
	return results
}

// Gate converts failed checks into a single actionable error. Generation
// entrypoints call this before doing any work; the deps command renders the
// full table instead.
func Gate(results []Result) error {
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "verify environment",
		strings.Join(failures, "; "), nil)
}
