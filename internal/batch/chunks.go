package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"rote/internal/services"
	"rote/internal/textutil"
)

// Chunk is one deck source parsed from the chunk library: an ordered phrase
// list, its display title, and its 1-based position among the non-empty
// blocks of the file.
type Chunk struct {
	Index   int
	Title   string
	Ident   string
	Phrases []string
}

var constOpenRE = regexp.MustCompile(`^const\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*\[`)

// ParseChunksFile reads the chunk library at path.
func ParseChunksFile(path string) ([]Chunk, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "batch", "parse chunks",
			fmt.Sprintf("open chunks file %s", path), err)
	}
	defer file.Close()
	return ParseChunks(file)
}

// ParseChunks scans JavaScript-flavored chunk source: blocks of the form
// `const ident = [ "...", ... ];` with double-quoted string elements. The
// display title is the nearest preceding // comment line; a block with no
// comment takes a title derived from its identifier. Blocks with zero
// phrases are skipped and do not consume an index.
func ParseChunks(r io.Reader) ([]Chunk, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		chunks       []Chunk
		pendingTitle string
		inBlock      bool
		ident        string
		phrases      []string
	)

	closeBlock := func() {
		if len(phrases) > 0 {
			title := pendingTitle
			if title == "" {
				title = textutil.TitleFromIdent(ident)
			}
			chunks = append(chunks, Chunk{
				Index:   len(chunks) + 1,
				Title:   title,
				Ident:   ident,
				Phrases: phrases,
			})
		}
		pendingTitle = ""
		inBlock = false
		ident = ""
		phrases = nil
	}

	consume := func(fragment string) {
		if terminator := strings.Index(fragment, "];"); terminator >= 0 {
			phrases = append(phrases, scanStringLiterals(fragment[:terminator])...)
			closeBlock()
			return
		}
		phrases = append(phrases, scanStringLiterals(fragment)...)
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if inBlock {
			consume(line)
			continue
		}
		switch {
		case strings.HasPrefix(line, "//"):
			pendingTitle = strings.TrimSpace(strings.TrimPrefix(line, "//"))
		case line == "":
			// Blank lines do not break the comment-to-block binding.
		default:
			if match := constOpenRE.FindStringSubmatch(line); match != nil {
				inBlock = true
				ident = match[1]
				phrases = nil
				consume(line[len(match[0]):])
				continue
			}
			pendingTitle = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "batch", "parse chunks",
			"read chunk source", err)
	}
	return chunks, nil
}

// scanStringLiterals extracts and decodes the double-quoted strings in a line
// fragment. Escapes are JSON-compatible plus the JavaScript \' form.
func scanStringLiterals(s string) []string {
	var out []string
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		j := i + 1
		for j < len(s) {
			if s[j] == '\\' {
				j += 2
				continue
			}
			if s[j] == '"' {
				break
			}
			j++
		}
		if j >= len(s) {
			break
		}
		if decoded, ok := decodeStringLiteral(s[i : j+1]); ok {
			out = append(out, decoded)
		}
		i = j
	}
	return out
}

func decodeStringLiteral(raw string) (string, bool) {
	raw = strings.ReplaceAll(raw, `\'`, "'")
	var decoded string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return "", false
	}
	return decoded, true
}
