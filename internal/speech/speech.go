// Package speech turns translated text into audio. Synthesis is optional in
// every workflow: callers treat its errors as warnings.
package speech

import (
	"context"
	"errors"
)

// ErrUnsupportedLanguage is returned when the speech service has no voice
// for the requested language.
var ErrUnsupportedLanguage = errors.New("speech synthesis not supported for this language")

// ContentType is the MIME type of the audio produced by Synthesizer implementations.
const ContentType = "audio/mpeg"

type Options struct {
	// Language is a language-table code; region subtags are ignored.
	Language string
	Slow     bool
}

// Synthesizer converts text to MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts Options) ([]byte, error)
}
