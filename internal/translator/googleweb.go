package translator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const defaultGoogleWebEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleWebService uses the keyless Google Translate web endpoint. The
// response is a nested JSON array; element 0 holds one [translated, original]
// pair per sentence.
type GoogleWebService struct {
	name     string
	endpoint string
	client   *http.Client
}

func NewGoogleWebService(cfg ServiceConfig) *GoogleWebService {
	return &GoogleWebService{
		name:     nameOr(cfg, KindGoogleWeb),
		endpoint: endpointOr(cfg, defaultGoogleWebEndpoint),
		client:   httpClient(cfg),
	}
}

func (s *GoogleWebService) Name() string {
	return s.name
}

func (s *GoogleWebService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	source := req.SourceLang
	if source == "" {
		source = "auto"
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", req.TargetLang)
	q.Set("dt", "t")
	q.Set("q", req.Text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return result, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("failed to read response: %w", err)
	}
	if !isSuccess(resp.StatusCode) {
		return result, &statusError{Code: resp.StatusCode}
	}
	if !gjson.ValidBytes(body) {
		return result, fmt.Errorf("malformed response body")
	}

	var sb strings.Builder
	gjson.GetBytes(body, "0").ForEach(func(_, sentence gjson.Result) bool {
		sb.WriteString(sentence.Get("0").String())
		return true
	})
	if sb.Len() == 0 {
		return result, fmt.Errorf("response has no translated sentences")
	}

	result.TranslatedText = sb.String()
	if detected := gjson.GetBytes(body, "2").String(); detected != "" {
		result.Metadata = map[string]string{"detected_source": detected}
	}
	return result, nil
}

func (s *GoogleWebService) IsAvailable(ctx context.Context) error {
	return nil
}
