package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/13anudhan2005-netizen/language-translator/internal/placeholder"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// OllamaTranslator runs translation through a self-hosted Ollama model.
type OllamaTranslator struct {
	name    string
	baseURL string
	model   string
	client  *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func NewOllamaTranslator(cfg ServiceConfig) *OllamaTranslator {
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaTranslator{
		name:    nameOr(cfg, KindOllama),
		baseURL: strings.TrimRight(endpointOr(cfg, defaultOllamaURL), "/"),
		model:   model,
		client:  httpClient(cfg),
	}
}

func (s *OllamaTranslator) Name() string {
	return s.name
}

func (s *OllamaTranslator) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	protected := placeholder.Protect(req.Text)
	jsonData, err := json.Marshal(ollamaRequest{
		Model:  s.model,
		Prompt: buildPrompt(req, protected),
		Stream: false,
	})
	if err != nil {
		return result, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(jsonData))
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
		return result, &statusError{Code: resp.StatusCode}
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return result, fmt.Errorf("failed to decode response: %w", err)
	}
	if ollamaResp.Error != "" {
		return result, fmt.Errorf("ollama: %s", ollamaResp.Error)
	}

	text, err := finishLLMOutput(ollamaResp.Response, protected)
	if err != nil {
		return result, err
	}

	result.TranslatedText = text
	result.Metadata = map[string]string{"model": s.model}
	return result, nil
}

func (s *OllamaTranslator) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}
