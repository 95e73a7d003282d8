package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain title", "Greetings", "Greetings"},
		{"slash becomes dash", "Either/Or", "Either-Or"},
		{"colon becomes dash", "Unit 2: Travel", "Unit 2- Travel"},
		{"quotes removed", `Say "hello"`, "Say hello"},
		{"question mark removed", "How are you?", "How are you"},
		{"angle brackets removed", "a<b>c", "abc"},
		{"trimmed", "  Basics  ", "Basics"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanPhrase(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"escaped quotes", `She said \"stop\"`, `She said "stop"`},
		{"stray backslash", `don\'t`, "don't"},
		{"trimmed", "  hello  ", "hello"},
		{"unchanged", "How are you?", "How are you?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanPhrase(tt.in); got != tt.want {
				t.Errorf("CleanPhrase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleFromIdent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"camel case", "greetingsAndSmallTalk", "Greetings And Small Talk"},
		{"single word", "basics", "Basics"},
		{"underscores", "unit_two_travel", "Unit Two Travel"},
		{"digits split", "unit2Phrases", "Unit 2 Phrases"},
		{"acronym run", "TTSWarmup", "TTS Warmup"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleFromIdent(tt.in); got != tt.want {
				t.Errorf("TitleFromIdent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
