package translator

import (
	"fmt"
	"strings"

	"github.com/13anudhan2005-netizen/language-translator/internal/languages"
	"github.com/13anudhan2005-netizen/language-translator/internal/placeholder"
	"github.com/13anudhan2005-netizen/language-translator/internal/postprocess"
)

// buildPrompt is shared by the LLM-backed services. The text sent is the
// protected form; markers are explained only when present.
func buildPrompt(req Request, protected placeholder.Protected) string {
	source := "the detected language"
	if req.SourceLang != "" && !strings.EqualFold(req.SourceLang, languages.Auto) {
		source = languages.Label(req.SourceLang)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Translate the following text from %s to %s.\n", source, languages.Label(req.TargetLang))
	sb.WriteString("Only respond with the translation, nothing else. No explanations, no quotes.\n")
	if protected.Len() > 0 {
		sb.WriteString(placeholder.Hint + "\n")
	}
	sb.WriteString("\nText: ")
	sb.WriteString(protected.Text)
	return sb.String()
}

// finishLLMOutput cleans model chatter and restores protected spans. A reply
// that loses markers is treated as malformed.
func finishLLMOutput(raw string, protected placeholder.Protected) (string, error) {
	text := postprocess.Clean(raw)
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return protected.Restore(text)
}
