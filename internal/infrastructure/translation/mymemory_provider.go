package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const myMemoryURL = "https://api.mymemory.translated.net/get"

// MyMemoryProvider calls the free MyMemory REST API.
type MyMemoryProvider struct {
	baseURL string
	email   string
	client  *http.Client
}

func NewMyMemoryProvider(email string) *MyMemoryProvider {
	return &MyMemoryProvider{
		baseURL: myMemoryURL,
		email:   email,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the provider at another endpoint, for tests.
func (p *MyMemoryProvider) WithBaseURL(baseURL string) *MyMemoryProvider {
	p.baseURL = baseURL
	return p
}

func (p *MyMemoryProvider) Name() string { return "mymemory" }

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// Sent as a number on success and sometimes as a string on errors.
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
}

func (r *myMemoryResponse) status() int {
	raw := string(r.ResponseStatus)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return code
}

func (p *MyMemoryProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", ProviderCode(source)+"|"+ProviderCode(target))
	if p.email != "" {
		params.Set("de", p.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mymemory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mymemory returned HTTP %d", resp.StatusCode)
	}

	var body myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("mymemory decode: %w", err)
	}
	if code := body.status(); code != http.StatusOK {
		return "", fmt.Errorf("mymemory status %d: %s", code, body.ResponseDetails)
	}
	if body.ResponseData.TranslatedText == "" {
		return "", ErrEmptyTranslation
	}

	return html.UnescapeString(body.ResponseData.TranslatedText), nil
}
