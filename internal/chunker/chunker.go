// Package chunker splits text into pieces small enough for services with a
// per-request length cap, such as the speech endpoint.
package chunker

import (
	"strings"
	"unicode"
)

// Chunk splits text into trimmed pieces of at most maxRunes runes. A cut is
// placed at the last paragraph break inside the window, else after the last
// sentence terminator followed by a space, else at the last space, else at
// maxRunes exactly. maxRunes <= 0 disables splitting.
func Chunk(text string, maxRunes int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxRunes {
		cut := splitPoint(runes[:maxRunes+1], maxRunes)
		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			chunks = append(chunks, piece)
		}
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

// splitPoint picks a rune index in (0, limit]. window holds limit+1 runes so
// a boundary exactly at limit can be recognised.
func splitPoint(window []rune, limit int) int {
	for i := limit - 1; i > 0; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
	}
	for i := limit - 1; i > 0; i-- {
		switch window[i] {
		case '.', '!', '?', '。', '！', '？':
			if unicode.IsSpace(window[i+1]) {
				return i + 1
			}
		}
	}
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	return limit
}
