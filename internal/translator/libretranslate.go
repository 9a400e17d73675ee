package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultLibreTranslateEndpoint = "http://localhost:5000/translate"

// LibreTranslateService talks to a self-hosted LibreTranslate server.
type LibreTranslateService struct {
	name     string
	endpoint string
	apiKey   string
	client   *http.Client
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText *string `json:"translatedText"`
	Error          string  `json:"error"`
}

func NewLibreTranslateService(cfg ServiceConfig) *LibreTranslateService {
	return &LibreTranslateService{
		name:     nameOr(cfg, KindLibreTranslate),
		endpoint: endpointOr(cfg, defaultLibreTranslateEndpoint),
		apiKey:   cfg.APIKey,
		client:   httpClient(cfg),
	}
}

func (s *LibreTranslateService) Name() string {
	return s.name
}

func (s *LibreTranslateService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	source := req.SourceLang
	if source == "" {
		source = "auto"
	}

	jsonData, err := json.Marshal(libreRequest{
		Q:      req.Text,
		Source: source,
		Target: req.TargetLang,
		Format: "text",
		APIKey: s.apiKey,
	})
	if err != nil {
		return result, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return result, transportError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return result, &statusError{Code: resp.StatusCode, Body: string(body)}
	}

	var libreResp libreResponse
	if err := json.NewDecoder(resp.Body).Decode(&libreResp); err != nil {
		return result, fmt.Errorf("failed to decode response: %w", err)
	}
	if libreResp.Error != "" {
		return result, fmt.Errorf("API error: %s", libreResp.Error)
	}
	if libreResp.TranslatedText == nil || *libreResp.TranslatedText == "" {
		return result, fmt.Errorf("response missing translatedText")
	}

	result.TranslatedText = *libreResp.TranslatedText
	return result, nil
}

// IsAvailable probes the server's /languages listing next to the translate endpoint.
func (s *LibreTranslateService) IsAvailable(ctx context.Context) error {
	probe := s.endpoint
	if n := len(probe) - len("/translate"); n > 0 && probe[n:] == "/translate" {
		probe = probe[:n] + "/languages"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probe, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("libretranslate not available: %w", err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("libretranslate returned status %d", resp.StatusCode)
	}
	return nil
}
