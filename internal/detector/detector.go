// Package detector guesses the language of a text. lingua-go is consulted
// first; whatlanggo is the second opinion when lingua cannot decide.
package detector

import (
	"strings"
	"sync"

	"github.com/abadojack/whatlanggo"
	lingua "github.com/pemistahl/lingua-go"

	"github.com/13anudhan2005-netizen/language-translator/internal/languages"
)

// Detector is safe for concurrent use. The lingua models are loaded on first use.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{}
}

func (d *Detector) lingua() lingua.LanguageDetector {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build()
	})
	return d.detector
}

// DetectISO returns the upper-case ISO 639-1 code of text.
func (d *Detector) DetectISO(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if lang, ok := d.lingua().DetectLanguageOf(text); ok {
		return lang.IsoCode639_1().String(), true
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "", false
	}
	iso := info.Lang.Iso6391()
	if iso == "" {
		return "", false
	}
	return strings.ToUpper(iso), true
}

// Detect returns a code from the language table, so the result can be sent
// to any backend and labelled for display.
func (d *Detector) Detect(text string) (string, bool) {
	iso, ok := d.DetectISO(text)
	if !ok {
		return "", false
	}
	return languages.FromISO639_1(iso)
}
