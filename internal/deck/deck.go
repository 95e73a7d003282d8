// Package deck models one unit of generator work: a titled, indexed phrase
// list and the artifact names derived from it.
package deck

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"rote/internal/fileutil"
	"rote/internal/services"
	"rote/internal/textutil"
)

// Deck is an ordered phrase list with the title and output index its
// artifacts are named after.
type Deck struct {
	Title   string
	Index   int
	Phrases []string
}

// Validate reports whether the deck can be generated.
func (d Deck) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return services.Wrap(services.ErrValidation, "deck", "validate", "title required", nil)
	}
	if d.Index < 1 {
		return services.Wrap(services.ErrValidation, "deck", "validate",
			fmt.Sprintf("output index %d must be at least 1", d.Index), nil)
	}
	return nil
}

// OutputBase returns the shared stem of the deck's artifact names.
func (d Deck) OutputBase() string {
	return fmt.Sprintf("%d-%s", d.Index, textutil.SanitizeFileName(d.Title))
}

// AudioFileName returns the MP3 artifact name.
func (d Deck) AudioFileName() string { return d.OutputBase() + ".mp3" }

// VideoFileName returns the MP4 artifact name.
func (d Deck) VideoFileName() string { return d.OutputBase() + ".mp4" }

// DisplayTitle returns the title-card text, index included.
func (d Deck) DisplayTitle() string {
	return fmt.Sprintf("%d - %s", d.Index, d.Title)
}

// LoadPhraseFile reads one phrase per line from path, or from stdin when
// path is "-". Blank lines and lines starting with # are skipped.
func LoadPhraseFile(path string) ([]string, error) {
	if path == "-" {
		return ReadPhrases(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "deck", "load phrases",
			fmt.Sprintf("open phrase file %s", path), err)
	}
	defer file.Close()
	return ReadPhrases(file)
}

// ReadPhrases scans phrases from r, one per line, skipping blanks and
// # comments.
func ReadPhrases(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var phrases []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "deck", "load phrases",
			"read phrase lines", err)
	}
	return phrases, nil
}

// NextIndex infers the next output index for dir: one more than the number
// of MP4 files already present. A missing or empty directory yields 1.
func NextIndex(dir string) (int, error) {
	files, err := fileutil.ListByExtension(dir, ".mp4")
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "deck", "infer index",
			fmt.Sprintf("scan output directory %s", dir), err)
	}
	return len(files) + 1, nil
}
