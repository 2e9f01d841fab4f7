package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

const googleTranslateURL = "https://translate.googleapis.com/translate_a/single"

// GoogleBackend uses the free Google web translation endpoint. It needs no
// credential.
type GoogleBackend struct {
	endpoint   string
	httpClient *http.Client
}

// NewGoogleBackend creates a backend; an empty endpoint selects the public one.
func NewGoogleBackend(endpoint string, client *http.Client) *GoogleBackend {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = googleTranslateURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &GoogleBackend{endpoint: endpoint, httpClient: client}
}

func (g *GoogleBackend) Name() string {
	return string(KindGoogle)
}

func (g *GoogleBackend) Translate(ctx context.Context, text, targetLang string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", "auto")
	query.Set("tl", targetLang)
	query.Set("dt", "t")
	query.Set("q", text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("google translate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read google translate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google translate status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse joins the translated segments of a translate_a/single
// reply: [[["segment","source",...],...],...].
func parseGoogleResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("malformed google translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("malformed google translate response: empty payload")
	}

	var segments [][]interface{}
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("malformed google translate segments: %w", err)
	}

	var out strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		if s, ok := segment[0].(string); ok {
			out.WriteString(s)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("malformed google translate response: no translated text")
	}
	return out.String(), nil
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
