package batch

import (
	"fmt"
	"strings"

	"rote/internal/services"
)

// Selection narrows a chunk list for one batch run. The zero value selects
// everything.
type Selection struct {
	Start    int      // 1-based inclusive; 0 means from the beginning
	End      int      // 1-based inclusive; 0 means to the end
	Titles   []string // exact title matches, case-insensitive
	Contains string   // title substring, case-insensitive
}

// Apply filters chunks by index range, then by title filters. Selecting past
// the last chunk yields an empty result, not an error.
func (s Selection) Apply(chunks []Chunk) ([]Chunk, error) {
	start := s.Start
	if start == 0 {
		start = 1
	}
	if start < 1 {
		return nil, services.Wrap(services.ErrValidation, "batch", "select chunks",
			fmt.Sprintf("start index %d must be at least 1", s.Start), nil)
	}
	if s.End != 0 && s.End < start {
		return nil, services.Wrap(services.ErrValidation, "batch", "select chunks",
			fmt.Sprintf("end index %d precedes start index %d", s.End, start), nil)
	}

	titleSet := make(map[string]struct{}, len(s.Titles))
	for _, title := range s.Titles {
		titleSet[strings.ToLower(strings.TrimSpace(title))] = struct{}{}
	}
	needle := strings.ToLower(s.Contains)

	var selected []Chunk
	for _, chunk := range chunks {
		if chunk.Index < start || (s.End != 0 && chunk.Index > s.End) {
			continue
		}
		if len(titleSet) > 0 {
			if _, ok := titleSet[strings.ToLower(chunk.Title)]; !ok {
				continue
			}
		}
		if needle != "" && !strings.Contains(strings.ToLower(chunk.Title), needle) {
			continue
		}
		selected = append(selected, chunk)
	}
	return selected, nil
}
