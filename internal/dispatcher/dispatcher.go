// Package dispatcher translates text by walking an ordered chain of backends
// until one of them succeeds.
package dispatcher

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/13anudhan2005-netizen/language-translator/internal/languages"
	"github.com/13anudhan2005-netizen/language-translator/internal/translator"
)

const (
	DefaultTimeout = 15 * time.Second
	DefaultSource  = "en"
)

// Detector resolves the auto source language. ok is false when the language
// could not be determined.
type Detector interface {
	Detect(text string) (code string, ok bool)
}

type Config struct {
	// Timeout bounds each backend call.
	Timeout time.Duration
	// DefaultSource replaces "auto" when detection fails.
	DefaultSource string
}

// Attempt is the outcome of one backend call.
type Attempt struct {
	Backend string
	Text    string
	Latency time.Duration
	Err     error
}

func (a Attempt) Succeeded() bool {
	return a.Err == nil
}

type Result struct {
	TranslatedText string
	Backend        string
	// SourceLang is the language sent to the backend, after auto resolution.
	SourceLang string
	TargetLang string
	// Detected is true when SourceLang came from the detector.
	Detected bool
	Attempts []Attempt
}

// Dispatcher holds only read-only configuration and may be shared by
// concurrent callers.
type Dispatcher struct {
	services []translator.Service
	detector Detector
	config   Config
	logger   *zap.Logger
}

// New builds a Dispatcher over services in priority order. detector may be
// nil, in which case "auto" always resolves to DefaultSource.
func New(services []translator.Service, detector Detector, config Config, logger *zap.Logger) (*Dispatcher, error) {
	if len(services) == 0 {
		return nil, ErrNoBackends
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.DefaultSource == "" {
		config.DefaultSource = DefaultSource
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	chain := make([]translator.Service, len(services))
	copy(chain, services)

	return &Dispatcher{
		services: chain,
		detector: detector,
		config:   config,
		logger:   logger,
	}, nil
}

// Backends returns the names of the configured chain in priority order.
func (d *Dispatcher) Backends() []string {
	names := make([]string, len(d.services))
	for i, s := range d.services {
		names[i] = s.Name()
	}
	return names
}

// Translate returns the first successful translation from the chain. It
// fails with *ValidationError before any backend call, or with
// *AllBackendsFailedError once every backend has been tried once.
func (d *Dispatcher) Translate(ctx context.Context, req translator.Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	source, detected := d.resolveSource(req.Text, req.SourceLang)
	call := translator.Request{
		Text:       req.Text,
		SourceLang: source,
		TargetLang: req.TargetLang,
	}

	attempts := make([]Attempt, 0, len(d.services))
	for _, svc := range d.services {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Backend: svc.Name(), Err: err})
			break
		}

		a := d.attempt(ctx, svc, call)
		attempts = append(attempts, a)
		if a.Succeeded() {
			return &Result{
				TranslatedText: a.Text,
				Backend:        a.Backend,
				SourceLang:     source,
				TargetLang:     req.TargetLang,
				Detected:       detected,
				Attempts:       attempts,
			}, nil
		}

		d.logger.Warn("translation backend failed",
			zap.String("backend", a.Backend),
			zap.Duration("latency", a.Latency),
			zap.Error(a.Err))
	}

	return nil, newAllBackendsFailedError(attempts)
}

func (d *Dispatcher) attempt(ctx context.Context, svc translator.Service, req translator.Request) Attempt {
	callCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	start := time.Now()
	res, err := svc.Translate(callCtx, req)
	a := Attempt{Backend: svc.Name(), Latency: time.Since(start), Err: err}
	if err != nil {
		return a
	}
	if res == nil || res.TranslatedText == "" {
		a.Err = errEmptyTranslation
		return a
	}
	a.Text = res.TranslatedText
	return a
}

func (d *Dispatcher) resolveSource(text, source string) (string, bool) {
	if !strings.EqualFold(source, languages.Auto) {
		return source, false
	}
	if d.detector != nil {
		if code, ok := d.detector.Detect(text); ok && code != "" {
			return code, true
		}
	}
	d.logger.Info("language detection failed, using default source",
		zap.String("default_source", d.config.DefaultSource))
	return d.config.DefaultSource, false
}

func validate(req translator.Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		return &ValidationError{Field: "target language", Reason: "must be set"}
	}
	if strings.EqualFold(req.TargetLang, languages.Auto) {
		return &ValidationError{Field: "target language", Reason: `"auto" is only valid as a source`}
	}
	if strings.TrimSpace(req.SourceLang) == "" {
		return &ValidationError{Field: "source language", Reason: `must be set (use "auto" to detect)`}
	}
	return nil
}
