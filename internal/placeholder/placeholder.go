// Package placeholder shields text that must survive an LLM translation
// verbatim (code, markup, links) behind numbered markers such as [PH0].
package placeholder

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMarkersLost means the model dropped or mangled at least one marker.
var ErrMarkersLost = errors.New("translation lost protected content")

var (
	// Alternation order decides overlaps: fenced blocks win over inline code.
	reProtected = regexp.MustCompile("(?s)```.*?```|`[^`\n]+`|</?[A-Za-z][^<>\n]*>|https?://[^\\s<>()\"']+")

	reMarker = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Hint is appended to prompts whose text carries markers.
const Hint = "Keep every [PHn] marker exactly as written and in a sensible position; never translate or drop them."

// Protected is text with its shielded spans swapped out.
type Protected struct {
	Text    string
	markers []string
}

// Protect replaces code fences, inline code, HTML tags and URLs with markers
// in order of appearance.
func Protect(text string) Protected {
	var markers []string
	out := reProtected.ReplaceAllStringFunc(text, func(span string) string {
		markers = append(markers, span)
		return "[PH" + strconv.Itoa(len(markers)-1) + "]"
	})
	return Protected{Text: out, markers: markers}
}

// Len reports how many spans were shielded.
func (p Protected) Len() int {
	return len(p.markers)
}

// Restore puts the original spans back into translated. Every marker must be
// present exactly once; otherwise ErrMarkersLost is returned with the indices.
func (p Protected) Restore(translated string) (string, error) {
	if len(p.markers) == 0 {
		return translated, nil
	}

	seen := make([]int, len(p.markers))
	out := reMarker.ReplaceAllStringFunc(translated, func(m string) string {
		idx, err := strconv.Atoi(reMarker.FindStringSubmatch(m)[1])
		if err != nil || idx >= len(p.markers) {
			return m
		}
		seen[idx]++
		return p.markers[idx]
	})

	var bad []string
	for i, n := range seen {
		if n != 1 {
			bad = append(bad, fmt.Sprintf("[PH%d]x%d", i, n))
		}
	}
	if len(bad) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMarkersLost, strings.Join(bad, ", "))
	}
	return out, nil
}
