package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"sheworks/internal/infrastructure/cache"
	"sheworks/internal/infrastructure/ratelimit"
	"sheworks/internal/infrastructure/translation"
	"sheworks/pkg/errors"
	"sheworks/pkg/logger"
)

const translateAction = "translate"

type TranslationUseCase struct {
	providers     []translation.Provider
	cache         cache.Store
	limiter       *ratelimit.RateLimiter
	batchWorkers  int
	batchInterval time.Duration
}

// NewTranslationUseCase tries providers in order. A nil entry is skipped, so a
// missing primary key leaves the fallback-only path.
func NewTranslationUseCase(
	providers []translation.Provider,
	store cache.Store,
	limiter *ratelimit.RateLimiter,
	batchWorkers int,
	batchInterval time.Duration,
) *TranslationUseCase {
	active := make([]translation.Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			active = append(active, p)
		}
	}
	if batchWorkers <= 0 {
		batchWorkers = 4
	}

	return &TranslationUseCase{
		providers:     active,
		cache:         store,
		limiter:       limiter,
		batchWorkers:  batchWorkers,
		batchInterval: batchInterval,
	}
}

func sameLanguage(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// CheckRateLimit charges one translation request to identity. Cache hits are
// charged like misses.
func (uc *TranslationUseCase) CheckRateLimit(ctx context.Context, identity string) error {
	if uc.limiter == nil {
		return nil
	}

	decision, err := uc.limiter.Allow(ctx, identity, translateAction)
	if err != nil {
		// Fail open when the limiter store is unreachable.
		logger.Error("Rate limiter unavailable for %s: %v", identity, err)
		return nil
	}
	if !decision.Allowed {
		return errors.TooManyRequests("Too many translation requests, please try again later", decision.RetryAfter)
	}
	return nil
}

// Translate never fails: on any provider trouble the original text comes back.
func (uc *TranslationUseCase) Translate(ctx context.Context, text, sourceLang, targetLang string) string {
	return uc.translate(ctx, text, sourceLang, targetLang, nil)
}

func (uc *TranslationUseCase) translate(ctx context.Context, text, sourceLang, targetLang string, pace *rate.Limiter) string {
	if text == "" || sameLanguage(sourceLang, targetLang) {
		return text
	}

	key := cache.Key{Text: text, Source: sourceLang, Target: targetLang}
	if uc.cache != nil {
		entry, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("Translation cache read failed: %v", err)
		} else if ok {
			return entry.TranslatedText
		}
	}

	if pace != nil {
		if err := pace.Wait(ctx); err != nil {
			return text
		}
	}

	for _, provider := range uc.providers {
		translated, err := provider.Translate(ctx, text, sourceLang, targetLang)
		if err != nil {
			logger.Warn("Translation provider %s failed (%s -> %s): %v", provider.Name(), sourceLang, targetLang, err)
			continue
		}

		if uc.cache != nil {
			if err := uc.cache.Set(ctx, key, translated); err != nil {
				logger.Warn("Translation cache write failed: %v", err)
			}
		}
		return translated
	}

	return text
}

// TranslateInterface translates UI strings, keyed by the original string.
func (uc *TranslationUseCase) TranslateInterface(ctx context.Context, texts []string, sourceLang, targetLang string) map[string]string {
	unique := make([]string, 0, len(texts))
	seen := make(map[string]bool, len(texts))
	for _, t := range texts {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}

	results := uc.fanOut(ctx, len(unique), func(ctx context.Context, i int, pace *rate.Limiter) string {
		return uc.translate(ctx, unique[i], sourceLang, targetLang, pace)
	})

	translations := make(map[string]string, len(unique))
	for i, t := range unique {
		translations[t] = results[i]
	}
	return translations
}

type BatchMessage struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
}

type TranslatedMessage struct {
	MessageID        string `json:"messageId"`
	OriginalText     string `json:"originalText"`
	TranslatedText   string `json:"translatedText"`
	OriginalLanguage string `json:"originalLanguage"`
	TargetLanguage   string `json:"targetLanguage"`
}

// TranslateBatch translates every message into targetLang, keeping input order.
// Messages without a source language are assumed to be English.
func (uc *TranslationUseCase) TranslateBatch(ctx context.Context, messages []BatchMessage, targetLang string) []TranslatedMessage {
	results := uc.fanOut(ctx, len(messages), func(ctx context.Context, i int, pace *rate.Limiter) string {
		m := messages[i]
		return uc.translate(ctx, m.Text, languageOrDefault(m.SourceLanguage), targetLang, pace)
	})

	out := make([]TranslatedMessage, len(messages))
	for i, m := range messages {
		out[i] = TranslatedMessage{
			MessageID:        m.ID,
			OriginalText:     m.Text,
			TranslatedText:   results[i],
			OriginalLanguage: languageOrDefault(m.SourceLanguage),
			TargetLanguage:   targetLang,
		}
	}
	return out
}

// fanOut runs fn for 0..n-1 on a fixed pool of workers. Provider calls share
// one pacing limiter so the pool stays polite to the providers.
func (uc *TranslationUseCase) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int, pace *rate.Limiter) string) []string {
	results := make([]string, n)
	if n == 0 {
		return results
	}

	var pace *rate.Limiter
	if uc.batchInterval > 0 {
		pace = rate.NewLimiter(rate.Every(uc.batchInterval), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.batchWorkers)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			results[i] = fn(gctx, i, pace)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func languageOrDefault(lang string) string {
	if lang == "" {
		return "en"
	}
	return lang
}
