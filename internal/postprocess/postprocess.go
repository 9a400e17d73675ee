// Package postprocess strips artifacts that chat models add around a
// translation: reasoning blocks, a "Here is the translation:" preamble and
// quotes wrapping the whole answer.
package postprocess

import (
	"regexp"
	"strings"
)

// RE2 has no backreferences, so each tag pair is spelled out.
var reasoningRe = regexp.MustCompile(
	`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`,
)

// An opening tag the model never closed swallows the rest of the output.
var unclosedReasoningRe = regexp.MustCompile(`(?is)(?:<think>|<thinking>|<reasoning>).*$`)

var preambleRe = regexp.MustCompile(
	`(?i)^(?:(?:sure|certainly|of course)[,.!]?\s+)?(?:here(?:'s| is)\s+)?(?:the\s+)?(?:translated text|translation)(?:\s+(?:in|into)\s+[\p{L} ()]+?)?\s*:\s*`,
)

var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'«', '»'},
	{'“', '”'},
	{'‘', '’'},
}

// Clean returns text with model artifacts removed and surrounding space trimmed.
func Clean(text string) string {
	text = reasoningRe.ReplaceAllString(text, "")
	text = unclosedReasoningRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = preambleRe.ReplaceAllString(text, "")
	return unquote(strings.TrimSpace(text))
}

func unquote(text string) string {
	r := []rune(text)
	if len(r) < 2 {
		return text
	}
	for _, p := range quotePairs {
		if r[0] == p[0] && r[len(r)-1] == p[1] {
			return strings.TrimSpace(string(r[1 : len(r)-1]))
		}
	}
	return text
}
