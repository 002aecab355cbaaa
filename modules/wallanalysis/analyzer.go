package wallanalysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiAnalyzer - Gemini 비전 모델로 벽 영역 추정
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a vision client. Close it when the process exits.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini vision client: %w", err)
	}

	log.Info().Str("model", model).Msg("✅ Gemini vision analyzer initialized")
	return &GeminiAnalyzer{client: client, model: model}, nil
}

func (a *GeminiAnalyzer) Close() error {
	return a.client.Close()
}

// AnalyzeWall sends the photo and analysis prompt and returns the raw model
// text. The text is untrusted; run it through ParseWallAnalysis.
func (a *GeminiAnalyzer) AnalyzeWall(ctx context.Context, image []byte, mimeType string, userPrompt string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	log.Info().
		Str("model", a.model).
		Int("image_bytes", len(image)).
		Msg("📤 Sending wall analysis request to Gemini")

	resp, err := model.GenerateContent(ctx, genai.ImageData(imageFormat(mimeType), image), genai.Text(BuildAnalysisPrompt(userPrompt)))
	if err != nil {
		return "", fmt.Errorf("Gemini vision request failed: %w", err)
	}

	text := firstCandidateText[genai.Text](resp.Candidates, func(c *genai.Candidate) []genai.Part {
		if c.Content == nil {
			return nil
		}
		return c.Content.Parts
	})
	if text == "" {
		return "", fmt.Errorf("no text in Gemini vision response")
	}

	log.Info().Int("chars", len(text)).Msg("✅ Wall analysis received")
	return text, nil
}

// imageFormat - "image/jpeg" -> "jpeg"
func imageFormat(mimeType string) string {
	if format := strings.TrimPrefix(mimeType, "image/"); format != "" && format != mimeType {
		return format
	}
	return "png"
}

// firstCandidateText concatenates the text parts of the first candidate that
// has any. T is the SDK's text part type.
func firstCandidateText[T ~string, C any, P any](candidates []C, parts func(C) []P) string {
	var text strings.Builder
	for _, candidate := range candidates {
		for _, part := range parts(candidate) {
			if t, ok := any(part).(T); ok {
				text.WriteString(string(t))
			}
		}
		if text.Len() > 0 {
			break
		}
	}
	return text.String()
}
