package notify

import (
	"strings"
	"unicode/utf8"
)

// Telegram Bot API limits, counted in characters after entity parsing.
// Counting runes of the raw HTML is the stricter bound.
const (
	MaxMessageLength = 4096
	MaxCaptionLength = 1024
)

// SplitMessage breaks text into parts of at most limit runes, preferring
// line boundaries. A line longer than limit is cut, never inside an HTML
// entity or tag.
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	size := 0

	flush := func() {
		part := strings.TrimSuffix(cur.String(), "\n")
		if part != "" {
			parts = append(parts, part)
		}
		cur.Reset()
		size = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if size+n > limit {
			flush()
		}
		for n > limit {
			var head string
			head, line = cutRunes(line, limit)
			parts = append(parts, head)
			n = utf8.RuneCountInString(line)
		}
		cur.WriteString(line)
		size += n
	}
	flush()

	return parts
}

// clipRunes shortens s to at most limit runes.
func clipRunes(s string, limit int) string {
	head, _ := cutRunes(s, limit)
	return head
}

// cutRunes splits s after at most limit runes, backing off so an
// escaped entity or a tag is not split.
func cutRunes(s string, limit int) (string, string) {
	i := 0
	for n := 0; n < limit && i < len(s); n++ {
		_, width := utf8.DecodeRuneInString(s[i:])
		i += width
	}
	if i == len(s) {
		return s, ""
	}

	if amp := strings.LastIndexByte(s[:i], '&'); amp > 0 && amp > strings.LastIndexByte(s[:i], ';') {
		i = amp
	}
	if lt := strings.LastIndexByte(s[:i], '<'); lt > 0 && lt > strings.LastIndexByte(s[:i], '>') {
		i = lt
	}

	return s[:i], s[i:]
}
