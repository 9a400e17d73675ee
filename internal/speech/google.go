package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/13anudhan2005-netizen/language-translator/internal/chunker"
	"github.com/13anudhan2005-netizen/language-translator/internal/languages"
)

const (
	defaultTTSEndpoint = "https://translate.google.com/translate_tts"

	// The endpoint rejects longer inputs.
	maxChunkRunes = 100

	normalSpeed = "1"
	slowSpeed   = "0.3"
)

// supported lists the voices of the translate_tts endpoint by base subtag.
var supported = map[string]bool{
	"af": true, "am": true, "ar": true, "bg": true, "bn": true, "bs": true,
	"ca": true, "cs": true, "cy": true, "da": true, "de": true, "el": true,
	"en": true, "es": true, "et": true, "eu": true, "fi": true, "fr": true,
	"gl": true, "gu": true, "ha": true, "he": true, "hi": true, "hr": true,
	"hu": true, "id": true, "is": true, "it": true, "ja": true, "jv": true,
	"km": true, "kn": true, "ko": true, "la": true, "lt": true, "lv": true,
	"ml": true, "mr": true, "ms": true, "my": true, "ne": true, "nl": true,
	"no": true, "pa": true, "pl": true, "pt": true, "ro": true, "ru": true,
	"si": true, "sk": true, "sq": true, "sr": true, "su": true, "sv": true,
	"sw": true, "ta": true, "te": true, "th": true, "tl": true, "tr": true,
	"uk": true, "ur": true, "vi": true, "yue": true, "zh": true,
}

// Supports reports whether code (a language-table code) has a voice.
func Supports(code string) bool {
	return supported[languages.SpeechCode(code)]
}

// GoogleTTS synthesizes speech with the translate_tts endpoint, one request
// per chunk, concatenating the MP3 streams.
type GoogleTTS struct {
	endpoint string
	client   *http.Client
}

func NewGoogleTTS(endpoint string, timeout time.Duration) *GoogleTTS {
	if endpoint == "" {
		endpoint = defaultTTSEndpoint
	}
	return &GoogleTTS{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *GoogleTTS) Synthesize(ctx context.Context, text string, opts Options) ([]byte, error) {
	lang := languages.SpeechCode(opts.Language)
	if !supported[lang] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, opts.Language)
	}

	chunks := chunker.Chunk(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	speed := normalSpeed
	if opts.Slow {
		speed = slowSpeed
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		if err := g.fetch(ctx, &audio, chunk, lang, speed, i, len(chunks)); err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return audio.Bytes(), nil
}

func (g *GoogleTTS) fetch(ctx context.Context, w io.Writer, text, lang, speed string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("q", text)
	q.Set("tl", lang)
	q.Set("ttsspeed", speed)
	q.Set("total", fmt.Sprint(total))
	q.Set("idx", fmt.Sprint(idx))
	q.Set("textlen", fmt.Sprint(len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			// The query holds the text being spoken.
			return fmt.Errorf("request failed: %s %s: %w", ue.Op, g.endpoint, ue.Err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speech endpoint returned status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "audio/") {
		return fmt.Errorf("unexpected content type %q", ct)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("empty audio response")
	}
	return nil
}
