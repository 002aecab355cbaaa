package vertexai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cloud.google.com/go/vertexai/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"wall-panel-server/modules/common/config"
)

// NewClient - Vertex AI 클라이언트 생성
// 자격 증명 우선순위: VERTEXAI_CREDENTIALS_JSON -> VERTEXAI_CREDENTIALS_PATH -> ADC
func NewClient(ctx context.Context, cfg *config.Config) (*genai.Client, error) {
	opts, err := credentialOptions(cfg)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, cfg.VertexAIProject, cfg.VertexAILocation, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	log.Info().
		Str("project", cfg.VertexAIProject).
		Str("location", cfg.VertexAILocation).
		Msg("✅ [VertexAI] Client initialized")
	return client, nil
}

func credentialOptions(cfg *config.Config) ([]option.ClientOption, error) {
	if cfg.VertexAICredentialsJSON != "" {
		log.Info().Msg("✅ [VertexAI] Using VERTEXAI_CREDENTIALS_JSON")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.VertexAICredentialsJSON))}, nil
	}

	if cfg.VertexAICredentialsPath != "" {
		credsData, err := os.ReadFile(cfg.VertexAICredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		if !json.Valid(credsData) {
			return nil, fmt.Errorf("invalid JSON credentials in %s", cfg.VertexAICredentialsPath)
		}
		log.Info().Str("path", cfg.VertexAICredentialsPath).Msg("✅ [VertexAI] Using credentials file")
		return []option.ClientOption{option.WithCredentialsJSON(credsData)}, nil
	}

	log.Warn().Msg("⚠️  [VertexAI] No explicit credentials found, using Application Default Credentials")
	return nil, nil
}
