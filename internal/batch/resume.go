package batch

import (
	"fmt"
	"strconv"
	"strings"

	"rote/internal/fileutil"
	"rote/internal/services"
)

// InferResumeStart returns the next chunk index to run, based on the MP4
// files already in dir: one past the highest numeric `<n>-` prefix. When no
// file carries a numeric prefix the count stands in; a missing or empty
// directory starts from 1.
func InferResumeStart(dir string) (int, error) {
	files, err := fileutil.ListByExtension(dir, ".mp4")
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "batch", "infer resume",
			fmt.Sprintf("scan output directory %s", dir), err)
	}
	if len(files) == 0 {
		return 1, nil
	}
	highest := 0
	for _, name := range files {
		if n, ok := numericPrefix(name); ok && n > highest {
			highest = n
		}
	}
	if highest > 0 {
		return highest + 1, nil
	}
	return len(files) + 1, nil
}

// numericPrefix extracts the leading `<digits>-` index from a file name.
func numericPrefix(name string) (int, bool) {
	prefix, _, ok := strings.Cut(name, "-")
	if !ok || prefix == "" {
		return 0, false
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return n, true
}
