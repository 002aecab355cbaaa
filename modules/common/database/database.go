package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/supabase-community/supabase-go"

	"wall-panel-server/modules/common/config"
	"wall-panel-server/modules/common/model"
)

var ErrJobNotFound = errors.New("design job not found")

// Client - designs 테이블 접근
type Client struct {
	supabase *supabase.Client
	table    string
}

// NewClient - Database 클라이언트 생성
func NewClient(cfg *config.Config) (*Client, error) {
	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &Client{
		supabase: supabaseClient,
		table:    cfg.DesignsTable,
	}, nil
}

// FetchDesignJob - Supabase에서 Job 데이터 조회
func (c *Client) FetchDesignJob(ctx context.Context, jobID string) (*model.DesignJob, error) {
	data, _, err := c.supabase.From(c.table).
		Select("*", "exact", false).
		Eq("id", jobID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query Supabase: %w", err)
	}

	var jobs []model.DesignJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	job := &jobs[0]
	log.Debug().Str("job_id", job.ID).Str("status", job.Status).Msg("🔍 Design job fetched")
	return job, nil
}

// ClaimJob - pending 상태일 때만 processing으로 전환하고 갱신된 row 반환
//
// The update is filtered on the current status, so when the same id is
// enqueued twice only one worker gets the row back. A nil job with a nil
// error means the job is missing or no longer pending.
func (c *Client) ClaimJob(ctx context.Context, jobID string) (*model.DesignJob, error) {
	data, _, err := c.supabase.From(c.table).
		Update(map[string]interface{}{"status": model.StatusProcessing}, "representation", "").
		Eq("id", jobID).
		Eq("status", model.StatusPending).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	var rows []model.DesignJob
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse claim response: %w", err)
	}

	claimed := len(rows) == 1
	log.Info().Str("job_id", jobID).Bool("claimed", claimed).Msg("📝 Claim attempted")
	if !claimed {
		return nil, nil
	}
	return &rows[0], nil
}

// UpdateStatus - Job 최종 상태 업데이트 (completed는 결과 URL과 함께)
func (c *Client) UpdateStatus(ctx context.Context, jobID, status, processedImageURL string) error {
	updateData := map[string]interface{}{
		"status": status,
	}
	if processedImageURL != "" {
		updateData["processed_image_url"] = processedImageURL
	}

	_, _, err := c.supabase.From(c.table).
		Update(updateData, "", "").
		Eq("id", jobID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	log.Info().Str("job_id", jobID).Str("status", status).Msg("✅ Job status updated")
	return nil
}
