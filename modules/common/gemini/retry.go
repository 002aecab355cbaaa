package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	maxRetriesPerKey = 3
	retryDelay       = 2 * time.Second
)

// GenerateContentWithRetry - 429 에러 시 여러 API 키로 재시도하는 헬퍼 함수
// 각 키당 최대 3번, non-429 에러는 바로 반환
func GenerateContentWithRetry(
	ctx context.Context,
	apiKeys []string,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	return withKeyRotation(ctx, apiKeys, retryDelay, func(ctx context.Context, apiKey string) (*genai.GenerateContentResponse, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}
		return client.Models.GenerateContent(ctx, model, contents, config)
	})
}

// withKeyRotation runs call with each key in turn. Rate-limit errors are
// retried on the same key after delay; any other error is returned at once.
func withKeyRotation[T any](ctx context.Context, apiKeys []string, delay time.Duration, call func(context.Context, string) (T, error)) (T, error) {
	var zero T
	if len(apiKeys) == 0 {
		return zero, fmt.Errorf("no API keys provided")
	}

	var lastErr error
	for keyIndex, apiKey := range apiKeys {
		log.Debug().Int("key", keyIndex+1).Int("keys", len(apiKeys)).Msg("🔑 [Gemini Retry] Trying API key")

		for attempt := 1; attempt <= maxRetriesPerKey; attempt++ {
			result, err := call(ctx, apiKey)
			if err == nil {
				if keyIndex > 0 || attempt > 1 {
					log.Info().Int("key", keyIndex+1).Int("attempt", attempt).Msg("✅ [Gemini Retry] Success after retry")
				}
				return result, nil
			}
			lastErr = err

			if !IsRateLimited(err) {
				log.Error().Err(err).Int("key", keyIndex+1).Msg("❌ [Gemini Retry] Non-429 error")
				return zero, err
			}

			log.Warn().Int("key", keyIndex+1).Int("attempt", attempt).Msg("⚠️  [Gemini Retry] Rate limited (429)")
			if attempt < maxRetriesPerKey {
				select {
				case <-ctx.Done():
					return zero, ctx.Err()
				case <-time.After(delay):
				}
			}
		}

		log.Warn().Int("key", keyIndex+1).Msg("⚠️  [Gemini Retry] Key exhausted, trying next key")
	}

	return zero, fmt.Errorf("all %d API keys exhausted (%d attempts each), last error: %w", len(apiKeys), maxRetriesPerKey, lastErr)
}

// IsRateLimited - 429 Rate Limit 에러인지 확인
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota")
}
