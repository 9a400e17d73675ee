package translator

import (
	"context"
	"fmt"
	"html"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService calls the Google Cloud Translation API (v2) with an API key
// or a service-account credentials file.
type GoogleService struct {
	name         string
	apiKey       string
	credentials  string
	endpoint     string
	quotaProject string
}

func NewGoogleService(cfg ServiceConfig) *GoogleService {
	return &GoogleService{
		name:        nameOr(cfg, KindGoogle),
		apiKey:      cfg.APIKey,
		credentials: cfg.Credentials,
		endpoint:    cfg.Endpoint,
		// Billing and quota are charged to this project when set.
		quotaProject: cfg.ProjectID,
	}
}

func (s *GoogleService) Name() string {
	return s.name
}

func (s *GoogleService) clientOptions() []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case s.apiKey != "":
		opts = append(opts, option.WithAPIKey(s.apiKey))
	case s.credentials != "":
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}
	if s.quotaProject != "" {
		opts = append(opts, option.WithQuotaProject(s.quotaProject))
	}
	return opts
}

func (s *GoogleService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	target, err := language.Parse(req.TargetLang)
	if err != nil {
		return result, fmt.Errorf("invalid target language %q: %w", req.TargetLang, err)
	}

	var opts *translate.Options
	if req.SourceLang != "" {
		source, err := language.Parse(req.SourceLang)
		if err != nil {
			return result, fmt.Errorf("invalid source language %q: %w", req.SourceLang, err)
		}
		opts = &translate.Options{Source: source, Format: translate.Text}
	}

	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		return result, fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	translations, err := client.Translate(ctx, []string{req.Text}, target, opts)
	if err != nil {
		return result, fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 || translations[0].Text == "" {
		return result, fmt.Errorf("no translation returned")
	}

	// v2 escapes HTML entities even in text format.
	result.TranslatedText = html.UnescapeString(translations[0].Text)
	return result, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" && s.credentials == "" {
		return fmt.Errorf("google: API key or credentials file required")
	}
	return nil
}
