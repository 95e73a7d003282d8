package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"rote/internal/fileutil"
	"rote/internal/services"
)

// Joining happens once per library, so quality wins over encode speed here.
const (
	joinPreset       = "medium"
	joinVideoBitrate = "2000k"
	joinAudioBitrate = "192k"
)

// JoinOptions selects the directory to concatenate and the output target.
type JoinOptions struct {
	Dir        string
	OutputPath string // defaults to joined.mp4 inside Dir
	Copy       bool   // stream copy instead of re-encoding
}

// Join concatenates the MP4 files of a directory into one video using the
// ffmpeg concat demuxer. Inputs are ordered by their numeric `<n>-` prefix,
// then by name; the output file itself is excluded from the inputs. The
// ordered input names are returned for reporting.
func Join(ctx context.Context, binary string, opts JoinOptions) ([]string, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrValidation, "render", "join", "directory required", nil)
	}

	output := strings.TrimSpace(opts.OutputPath)
	if output == "" {
		output = filepath.Join(dir, "joined.mp4")
	}

	names, err := fileutil.ListByExtension(dir, ".mp4")
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "render", "join",
			fmt.Sprintf("scan directory %s", dir), err)
	}
	inputs := make([]string, 0, len(names))
	for _, name := range names {
		if sameFile(filepath.Join(dir, name), output) {
			continue
		}
		inputs = append(inputs, name)
	}
	if len(inputs) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "render", "join",
			fmt.Sprintf("no mp4 files in %s", dir), nil)
	}
	sortJoinInputs(inputs)

	listPath, err := writeConcatList(dir, inputs)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "render", "join",
			"write concat list", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
	}
	if opts.Copy {
		args = append(args, "-c", "copy")
	} else {
		args = append(args,
			"-c:v", "libx264",
			"-preset", joinPreset,
			"-b:v", joinVideoBitrate,
			"-c:a", "aac",
			"-b:a", joinAudioBitrate,
			"-movflags", "+faststart",
		)
	}
	args = append(args, "-y", output)

	cmd := commandContext(ctx, binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(out))
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return nil, services.Wrap(services.ErrExternalTool, "render", "join", "ffmpeg concat", err)
	}
	return inputs, nil
}

// sortJoinInputs orders file names by numeric `<n>-` prefix; names without a
// prefix follow, sorted lexically.
func sortJoinInputs(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ni, oki := indexPrefix(names[i])
		nj, okj := indexPrefix(names[j])
		switch {
		case oki && okj:
			if ni != nj {
				return ni < nj
			}
			return names[i] < names[j]
		case oki:
			return true
		case okj:
			return false
		default:
			return names[i] < names[j]
		}
	})
}

func indexPrefix(name string) (int, bool) {
	prefix, _, ok := strings.Cut(name, "-")
	if !ok || prefix == "" {
		return 0, false
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// writeConcatList emits the concat demuxer's file list with absolute paths so
// -safe 0 resolution does not depend on the working directory.
func writeConcatList(dir string, names []string) (string, error) {
	file, err := os.CreateTemp("", "rote-concat-*.txt")
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, name := range names {
		path, err := filepath.Abs(filepath.Join(dir, name))
		if err != nil {
			file.Close()
			os.Remove(file.Name())
			return "", err
		}
		sb.WriteString("file '")
		sb.WriteString(strings.ReplaceAll(path, "'", `'\''`))
		sb.WriteString("'\n")
	}
	if _, err := file.WriteString(sb.String()); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
