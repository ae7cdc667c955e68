package translation

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

// GoogleProvider calls the Cloud Translation v2 API.
type GoogleProvider struct {
	service *translate.Service
}

// NewGoogleProvider builds the client from an API key plus any extra options.
func NewGoogleProvider(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GoogleProvider, error) {
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	}

	service, err := translate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing translate client: %w", err)
	}
	return &GoogleProvider{service: service}, nil
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := p.service.Translations.List([]string{text}, ProviderCode(target)).
		Source(ProviderCode(source)).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("google translate: %w", err)
	}
	if len(resp.Translations) == 0 || resp.Translations[0].TranslatedText == "" {
		return "", ErrEmptyTranslation
	}

	// Format "text" returns plain text; entity-looking sequences are literal.
	return resp.Translations[0].TranslatedText, nil
}
