package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultMyMemoryEndpoint = "https://api.mymemory.translated.net/get"

// MyMemoryService uses the free MyMemory API. APIKey, when set, is sent as the
// contact email ("de" parameter), which raises the daily quota.
type MyMemoryService struct {
	name     string
	endpoint string
	email    string
	client   *http.Client
}

func NewMyMemoryService(cfg ServiceConfig) *MyMemoryService {
	return &MyMemoryService{
		name:     nameOr(cfg, KindMyMemory),
		endpoint: endpointOr(cfg, defaultMyMemoryEndpoint),
		email:    cfg.APIKey,
		client:   httpClient(cfg),
	}
}

func (s *MyMemoryService) Name() string {
	return s.name
}

func (s *MyMemoryService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	// MyMemory has no auto-detection.
	sourceLang := req.SourceLang
	if sourceLang == "" || sourceLang == "auto" {
		sourceLang = "en"
	}

	q := url.Values{}
	q.Set("q", req.Text)
	q.Set("langpair", sourceLang+"|"+req.TargetLang)
	if s.email != "" {
		q.Set("de", s.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return result, transportError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return result, &statusError{Code: resp.StatusCode}
	}

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string  `json:"translatedText"`
			Match          float64 `json:"match"`
		} `json:"responseData"`
		ResponseStatus  json.Number `json:"responseStatus"`
		ResponseDetails string      `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return result, fmt.Errorf("failed to decode response: %w", err)
	}

	// responseStatus arrives as a number or a quoted number depending on the error path.
	if mymemResp.ResponseStatus.String() != "200" {
		return result, fmt.Errorf("API error: %s (%s)", mymemResp.ResponseDetails, mymemResp.ResponseStatus)
	}
	if mymemResp.ResponseData.TranslatedText == "" {
		return result, fmt.Errorf("response missing translatedText")
	}

	result.TranslatedText = mymemResp.ResponseData.TranslatedText
	result.Metadata = map[string]string{"match": fmt.Sprintf("%.2f", mymemResp.ResponseData.Match)}
	return result, nil
}

func (s *MyMemoryService) IsAvailable(ctx context.Context) error {
	return nil
}
