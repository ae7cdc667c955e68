// Package translation holds the external translation providers.
package translation

import (
	"context"
	"errors"
	"strings"
)

// Provider translates text between two language codes.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
}

var ErrEmptyTranslation = errors.New("provider returned an empty translation")

// providerCodes maps interface language codes to the codes providers expect.
// Codes not listed are passed through and left to the provider to reject.
var providerCodes = map[string]string{
	"zh":    "zh-CN",
	"zh-cn": "zh-CN",
	"zh-tw": "zh-TW",
	"tw":    "zh-TW",
	"jp":    "ja",
	"kr":    "ko",
	"cn":    "zh-CN",
	"iw":    "he",
	"fil":   "tl",
	"pt-br": "pt",
}

// ProviderCode normalises an interface language code.
func ProviderCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if mapped, ok := providerCodes[code]; ok {
		return mapped
	}
	return code
}
