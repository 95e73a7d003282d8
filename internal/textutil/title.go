package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// TitleFromIdent derives a human-readable title from a source identifier such
// as "greetingsAndSmallTalk" or "unit2_phrases". Words are split on camelCase
// boundaries, underscores, and digit transitions, then title-cased. Acronym
// runs keep their casing.
func TitleFromIdent(ident string) string {
	words := splitIdentWords(ident)
	if len(words) == 0 {
		return ""
	}
	return titleCaser.String(strings.Join(words, " "))
}

func splitIdentWords(ident string) []string {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return nil
	}

	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	runes := []rune(ident)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
			if prevLower || (prevUpper && nextLower) {
				flush()
			}
		case unicode.IsDigit(r):
			if i > 0 && !unicode.IsDigit(runes[i-1]) {
				flush()
			}
		default:
			if i > 0 && unicode.IsDigit(runes[i-1]) {
				flush()
			}
		}
		current.WriteRune(r)
	}
	flush()
	return words
}
