package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ServiceConfig describes one configured backend. The order of descriptors in
// the configuration defines fallback priority.
type ServiceConfig struct {
	Name        string        `mapstructure:"name" json:"name"`
	Kind        string        `mapstructure:"kind" json:"kind"`
	Endpoint    string        `mapstructure:"endpoint" json:"endpoint"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Model       string        `mapstructure:"model" json:"model"`
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	ProjectID   string        `mapstructure:"project_id" json:"project_id"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
}

type Request struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type Result struct {
	ServiceName    string            `json:"service_name"`
	TranslatedText string            `json:"translated_text"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Latency        time.Duration     `json:"latency"`
}

// Service is one translation backend behind a uniform call contract.
// Translate makes at most one upstream call.
type Service interface {
	Name() string
	Translate(ctx context.Context, req Request) (*Result, error)
	IsAvailable(ctx context.Context) error
}

const (
	KindGoogleWeb      = "googleweb"
	KindLibreTranslate = "libretranslate"
	KindMyMemory       = "mymemory"
	KindGoogle         = "google"
	KindOllama         = "ollama"
	KindOpenAI         = "openai"
)

// Kinds lists every backend kind New understands.
var Kinds = []string{KindGoogleWeb, KindLibreTranslate, KindMyMemory, KindGoogle, KindOllama, KindOpenAI}

// New builds the backend described by cfg.
func New(cfg ServiceConfig) (Service, error) {
	switch cfg.Kind {
	case KindGoogleWeb:
		return NewGoogleWebService(cfg), nil
	case KindLibreTranslate:
		return NewLibreTranslateService(cfg), nil
	case KindMyMemory:
		return NewMyMemoryService(cfg), nil
	case KindGoogle:
		return NewGoogleService(cfg), nil
	case KindOllama:
		return NewOllamaTranslator(cfg), nil
	case KindOpenAI:
		return NewOpenAIService(cfg)
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
}

func nameOr(cfg ServiceConfig, fallback string) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return fallback
}

func endpointOr(cfg ServiceConfig, fallback string) string {
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}
	return fallback
}

// httpClient leaves the deadline to the caller's context unless the
// descriptor sets its own timeout.
func httpClient(cfg ServiceConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// statusError reports a non-2xx upstream response.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.Code)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Code, e.Body)
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// transportError wraps a client.Do failure without the request URL. GET
// backends carry the caller's text in the query string.
func transportError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("request failed: %s %s: %w", ue.Op, stripQuery(ue.URL), ue.Err)
	}
	return fmt.Errorf("request failed: %w", err)
}

func stripQuery(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
