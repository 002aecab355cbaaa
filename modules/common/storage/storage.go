package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wall-panel-server/modules/common/config"
)

// maxImageBytes caps downloads of user photos.
const maxImageBytes = 25 << 20

// Client - Supabase Storage REST 클라이언트
type Client struct {
	baseURL        string
	storageBaseURL string
	serviceKey     string
	bucket         string
	http           *http.Client
}

// NewClient - Storage 클라이언트 생성
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:        cfg.SupabaseURL,
		storageBaseURL: cfg.SupabaseStorageBaseURL,
		serviceKey:     cfg.SupabaseServiceKey,
		bucket:         cfg.SupabaseBucket,
		http:           &http.Client{Timeout: 60 * time.Second},
	}
}

// ResolveURL turns a stored path into a downloadable URL. Absolute URLs pass
// through unchanged.
func (c *Client) ResolveURL(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	return c.storageBaseURL + strings.TrimPrefix(pathOrURL, "/")
}

// DownloadImage - 원본 이미지 다운로드
func (c *Client) DownloadImage(ctx context.Context, pathOrURL string) ([]byte, error) {
	fullURL := c.ResolveURL(pathOrURL)
	log.Info().Str("url", fullURL).Msg("📥 Downloading image")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("failed to download image: status %d, body: %s", resp.StatusCode, string(body))
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(imageData) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	log.Info().Int("bytes", len(imageData)).Msg("✅ Image downloaded successfully")
	return imageData, nil
}

// UploadDesignImage - 결과 이미지 업로드 후 public URL 반환
func (c *Client) UploadDesignImage(ctx context.Context, jobID string, data []byte, contentType, ext string) (string, error) {
	filePath := fmt.Sprintf("processed/%s/%s.%s", jobID, uuid.NewString(), ext)
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, filePath)
	log.Info().Str("path", filePath).Int("bytes", len(data)).Msg("✅ Design image uploaded")
	return publicURL, nil
}
