package design

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"wall-panel-server/modules/common/gemini"
	"wall-panel-server/modules/common/utils"
)

// ErrNoEditResult - 편집 모델이 이미지를 반환하지 않음 (job failed)
var ErrNoEditResult = errors.New("image edit returned no image")

// GeminiEditor - Gemini 이미지 모델로 마스크 영역 편집
type GeminiEditor struct {
	apiKeys []string
	model   string
}

func NewGeminiEditor(apiKeys []string, model string) *GeminiEditor {
	return &GeminiEditor{apiKeys: apiKeys, model: model}
}

// EditImage sends the letterboxed photo and mask and returns the first image
// part of the response.
func (e *GeminiEditor) EditImage(ctx context.Context, img, mask image.Image, prompt string) (image.Image, error) {
	imageData, err := utils.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edit image: %w", err)
	}
	maskData, err := utils.EncodePNG(mask)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edit mask: %w", err)
	}

	log.Info().
		Str("model", e.model).
		Int("image_bytes", len(imageData)).
		Int("mask_bytes", len(maskData)).
		Msg("📤 Sending inpaint request to Gemini")

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(imageData, "image/png"),
			genai.NewPartFromBytes(maskData, "image/png"),
		},
	}

	result, err := gemini.GenerateContentWithRetry(ctx, e.apiKeys, e.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{
				AspectRatio: "1:1",
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini edit request failed: %w", err)
	}

	data := firstInlineImage(result)
	if data == nil {
		return nil, ErrNoEditResult
	}

	edited, _, err := utils.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable image: %v", ErrNoEditResult, err)
	}

	log.Info().Int("bytes", len(data)).Msg("✅ Gemini inpaint completed")
	return edited, nil
}

// firstInlineImage - 응답에서 첫 번째 InlineData 추출
func firstInlineImage(result *genai.GenerateContentResponse) []byte {
	if result == nil {
		return nil
	}
	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
