package translator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/13anudhan2005-netizen/language-translator/internal/placeholder"
)

const defaultOpenAIModel = "gpt-4o-mini"

// translationTemperature keeps output near-deterministic. Zero is omitted
// from the request body and would leave the provider default in place.
const translationTemperature float32 = 0.1

// OpenAIService translates through any OpenAI-compatible chat-completions
// endpoint (OpenAI itself, OpenRouter, vLLM, ...). Endpoint overrides the base URL.
type OpenAIService struct {
	name   string
	model  string
	client *openai.Client
}

func NewOpenAIService(cfg ServiceConfig) (*OpenAIService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}
	clientCfg.HTTPClient = httpClient(cfg)

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIService{
		name:   nameOr(cfg, KindOpenAI),
		model:  model,
		client: openai.NewClientWithConfig(clientCfg),
	}, nil
}

func (s *OpenAIService) Name() string {
	return s.name
}

func (s *OpenAIService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	protected := placeholder.Protect(req.Text)
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a professional translator."},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req, protected)},
		},
		Temperature: translationTemperature,
	})
	if err != nil {
		return result, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("empty response from API")
	}

	text, err := finishLLMOutput(resp.Choices[0].Message.Content, protected)
	if err != nil {
		return result, err
	}

	result.TranslatedText = text
	result.Metadata = map[string]string{
		"model":             resp.Model,
		"prompt_tokens":     strconv.Itoa(resp.Usage.PromptTokens),
		"completion_tokens": strconv.Itoa(resp.Usage.CompletionTokens),
	}
	return result, nil
}

func (s *OpenAIService) IsAvailable(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai not available: %w", err)
	}
	return nil
}
