package render

import (
	"fmt"
	"strings"
	"sync"

	"rote/internal/config"
	"rote/internal/overlay"
)

// style resolves the visual parameters for each overlay kind.
type style struct {
	width            int
	height           int
	fontRegular      string
	fontBold         string
	textColor        string
	accentColor      string
	counterColor     string
	progressColor    string
	titleFontSize    int
	phraseFontSize   int
	counterFontSize  int
	progressFontSize int
}

func styleFromConfig(video config.Video) style {
	return style{
		width:            video.Width,
		height:           video.Height,
		fontRegular:      video.FontRegular,
		fontBold:         video.FontBold,
		textColor:        video.TextColor,
		accentColor:      video.AccentColor,
		counterColor:     video.CounterColor,
		progressColor:    video.ProgressColor,
		titleFontSize:    video.TitleFontSize,
		phraseFontSize:   video.PhraseFontSize,
		counterFontSize:  video.CounterFontSize,
		progressFontSize: video.ProgressFontSize,
	}
}

// graphBuilder assembles drawtext filtergraphs. Clause bodies are memoized
// by overlay kind and rendered text, so repeated texts (counters especially)
// are built once and stamped out with different enable windows.
type graphBuilder struct {
	style style

	mu    sync.Mutex
	cache map[clauseKey][]string
}

type clauseKey struct {
	kind overlay.Kind
	text string
}

func newGraphBuilder(st style) *graphBuilder {
	return &graphBuilder{style: st, cache: make(map[clauseKey][]string)}
}

// Script renders the full filtergraph: the background video input chained
// through one drawtext per visible overlay line, labeled [v].
func (b *graphBuilder) Script(descriptors []overlay.Descriptor) string {
	var filters []string
	for _, d := range descriptors {
		enable := fmt.Sprintf(":enable='between(t,%s,%s)'", seconds(d.StartMS), seconds(d.EndMS))
		for _, body := range b.clauseBodies(d.Kind, d.Text) {
			filters = append(filters, body+enable)
		}
	}
	if len(filters) == 0 {
		return "[0:v]null[v]"
	}
	return "[0:v]" + strings.Join(filters, ",") + "[v]"
}

// clauseBodies returns the drawtext clauses for one overlay, without timing.
func (b *graphBuilder) clauseBodies(kind overlay.Kind, text string) []string {
	key := clauseKey{kind: kind, text: text}
	b.mu.Lock()
	defer b.mu.Unlock()
	if bodies, ok := b.cache[key]; ok {
		return bodies
	}
	bodies := b.buildBodies(kind, text)
	b.cache[key] = bodies
	return bodies
}

func (b *graphBuilder) buildBodies(kind overlay.Kind, text string) []string {
	st := b.style
	switch kind {
	case overlay.KindTitle:
		return []string{drawtext(st.fontBold, st.titleFontSize, st.accentColor,
			"(w-text_w)/2", "(h-text_h)/2", text)}
	case overlay.KindPhrase:
		lines := wrapPhrase(text, phraseWrapLimit(st))
		if len(lines) == 1 {
			return []string{drawtext(st.fontBold, st.phraseFontSize, st.textColor,
				"(w-text_w)/2", "(h-text_h)/2", lines[0])}
		}
		topY := fmt.Sprintf("h/2-%d", st.phraseFontSize+10)
		bottomY := "h/2+10"
		return []string{
			drawtext(st.fontBold, st.phraseFontSize, st.textColor, "(w-text_w)/2", topY, lines[0]),
			drawtext(st.fontBold, st.phraseFontSize, st.textColor, "(w-text_w)/2", bottomY, lines[1]),
		}
	case overlay.KindCounter:
		return []string{drawtext(st.fontRegular, st.counterFontSize, st.counterColor,
			"(w-text_w)/2", "h*0.82", text)}
	case overlay.KindProgress:
		return []string{drawtext(st.fontRegular, st.progressFontSize, st.progressColor,
			"w-text_w-40", "40", text)}
	default:
		return nil
	}
}

func drawtext(fontFile string, fontSize int, color, x, y, text string) string {
	return fmt.Sprintf("drawtext=fontfile=%s:fontsize=%d:fontcolor=%s:x=%s:y=%s:text='%s'",
		escapeValue(fontFile), fontSize, colorRef(color), x, y, escapeText(text))
}

// phraseWrapLimit approximates how many characters fit on one phrase line,
// leaving a 160px margin on each side.
func phraseWrapLimit(st style) int {
	budget := float64(st.width - 320)
	glyph := 0.55 * float64(st.phraseFontSize)
	if budget <= 0 || glyph <= 0 {
		return 24
	}
	limit := int(budget / glyph)
	if limit < 8 {
		limit = 8
	}
	return limit
}

// wrapPhrase splits long text onto at most two lines at word boundaries.
// Text that fits stays on one line; anything past the second line's budget
// stays on the second line rather than being dropped.
func wrapPhrase(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return []string{text}
	}
	words := strings.Fields(text)
	var first strings.Builder
	rest := 0
	for i, word := range words {
		candidate := len(word)
		if first.Len() > 0 {
			candidate += first.Len() + 1
		}
		if candidate > limit && first.Len() > 0 {
			rest = i
			break
		}
		if first.Len() > 0 {
			first.WriteByte(' ')
		}
		first.WriteString(word)
		rest = i + 1
	}
	if rest >= len(words) {
		return []string{first.String()}
	}
	return []string{first.String(), strings.Join(words[rest:], " ")}
}

// seconds formats milliseconds as fractional seconds for filter expressions.
func seconds(ms int64) string {
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}

// colorRef normalizes #RRGGBB config colors to the 0x form ffmpeg filters
// accept everywhere.
func colorRef(color string) string {
	if strings.HasPrefix(color, "#") {
		return "0x" + color[1:]
	}
	return color
}

// escapeText prepares free text for a drawtext option inside a filtergraph.
// Two parsers see the value in turn (the filter option parser, then the
// graph parser), so special characters are escaped for both levels.
func escapeText(text string) string {
	text = escapeValue(text)
	return escapeGraph(text)
}

// escapeValue escapes the filter option parser's specials.
func escapeValue(s string) string {
	var out strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '\'', ':':
			out.WriteByte('\\')
		}
		out.WriteRune(r)
	}
	return out.String()
}

// escapeGraph escapes the filtergraph parser's specials.
func escapeGraph(s string) string {
	var out strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '\'', ',', ';', '[', ']':
			out.WriteByte('\\')
		}
		out.WriteRune(r)
	}
	return out.String()
}
