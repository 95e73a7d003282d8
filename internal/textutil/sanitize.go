package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// CleanPhrase normalizes phrase text pasted from JavaScript sources: escaped
// quotes are unescaped, stray backslashes removed, surrounding whitespace
// trimmed.
func CleanPhrase(phrase string) string {
	phrase = strings.ReplaceAll(phrase, `\"`, `"`)
	phrase = strings.ReplaceAll(phrase, `\`, "")
	return strings.TrimSpace(phrase)
}
