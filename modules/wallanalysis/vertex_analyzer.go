package wallanalysis

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
	"github.com/rs/zerolog/log"
)

// VertexAnalyzer - Vertex AI 백엔드 비전 분석 (VISION_BACKEND=vertex)
type VertexAnalyzer struct {
	client *genai.Client
	model  string
}

func NewVertexAnalyzer(client *genai.Client, model string) *VertexAnalyzer {
	return &VertexAnalyzer{client: client, model: model}
}

func (a *VertexAnalyzer) Close() error {
	return a.client.Close()
}

func (a *VertexAnalyzer) AnalyzeWall(ctx context.Context, image []byte, mimeType string, userPrompt string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	log.Info().
		Str("model", a.model).
		Int("image_bytes", len(image)).
		Msg("📤 Sending wall analysis request to Vertex AI")

	resp, err := model.GenerateContent(ctx, genai.ImageData(imageFormat(mimeType), image), genai.Text(BuildAnalysisPrompt(userPrompt)))
	if err != nil {
		return "", fmt.Errorf("Vertex AI vision request failed: %w", err)
	}

	text := firstCandidateText[genai.Text](resp.Candidates, func(c *genai.Candidate) []genai.Part {
		if c.Content == nil {
			return nil
		}
		return c.Content.Parts
	})
	if text == "" {
		return "", fmt.Errorf("no text in Vertex AI vision response")
	}
	return text, nil
}
