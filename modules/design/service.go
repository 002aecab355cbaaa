package design

import (
	"context"
	"fmt"
	"image"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wall-panel-server/modules/common/model"
	"wall-panel-server/modules/common/utils"
	"wall-panel-server/modules/panel"
	"wall-panel-server/modules/wallanalysis"
)

// JobStore - designs 테이블 상태 전이
type JobStore interface {
	ClaimJob(ctx context.Context, jobID string) (*model.DesignJob, error)
	UpdateStatus(ctx context.Context, jobID, status, processedImageURL string) error
}

// ImageStore - 원본 다운로드 / 결과 업로드
type ImageStore interface {
	DownloadImage(ctx context.Context, pathOrURL string) ([]byte, error)
	UploadDesignImage(ctx context.Context, jobID string, data []byte, contentType, ext string) (string, error)
}

// WallAnalyzer returns the vision model's raw text for a wall photo.
type WallAnalyzer interface {
	AnalyzeWall(ctx context.Context, image []byte, mimeType, userPrompt string) (string, error)
}

// ImageEditor edits img inside the white area of mask. A nil image with a
// nil error counts as no result.
type ImageEditor interface {
	EditImage(ctx context.Context, img, mask image.Image, prompt string) (image.Image, error)
}

type StatusNotifier interface {
	Notify(ctx context.Context, event model.StatusEvent) error
}

// Output - 결과 이미지 인코딩 설정
type Output struct {
	Format         string // "webp" | "png"
	WebPQuality    float32
	EditCanvasSize int
}

// Service - 디자인 Job 오케스트레이터
type Service struct {
	jobs     JobStore
	images   ImageStore
	analyzer WallAnalyzer
	editor   ImageEditor
	notifier StatusNotifier
	renderer *Renderer
	output   Output
}

// Deps - Service 협력 객체. Editor와 Notifier는 nil 허용
type Deps struct {
	Jobs     JobStore
	Images   ImageStore
	Analyzer WallAnalyzer
	Editor   ImageEditor
	Notifier StatusNotifier
	Renderer *Renderer
	Output   Output
}

func NewService(deps Deps) *Service {
	return &Service{
		jobs:     deps.Jobs,
		images:   deps.Images,
		analyzer: deps.Analyzer,
		editor:   deps.Editor,
		notifier: deps.Notifier,
		renderer: deps.Renderer,
		output:   deps.Output,
	}
}

// ProcessJob - pending -> processing -> {completed, failed}
//
// The claim returns the row, so no separate read happens before the job is
// owned. Every error and panic after the claim ends in a failed transition. A
// job that cannot be claimed (missing, or already picked up) is left untouched.
func (s *Service) ProcessJob(ctx context.Context, jobID string) {
	logger := log.With().Str("job_id", jobID).Logger()
	startTime := time.Now()

	job, err := s.jobs.ClaimJob(ctx, jobID)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Failed to claim design job")
		return
	}
	if job == nil {
		logger.Warn().Msg("⚠️  Job is missing or not pending, skipping")
		return
	}
	s.notify(ctx, logger, jobID, model.StatusProcessing, "")
	logger.Info().Str("pipeline", job.PipelineName()).Msg("🚀 Processing design job")

	resultURL, err := s.run(ctx, job)
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(startTime)).Msg("❌ Design job failed")
		s.finish(ctx, logger, jobID, model.StatusFailed, "")
		return
	}

	logger.Info().Str("url", resultURL).Dur("elapsed", time.Since(startTime)).Msg("✅ Design job completed")
	s.finish(ctx, logger, jobID, model.StatusCompleted, resultURL)
}

// run executes the requested pipeline and returns the uploaded image URL.
func (s *Service) run(ctx context.Context, job *model.DesignJob) (resultURL string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in pipeline: %v\n%s", r, debug.Stack())
		}
	}()

	strategy, err := resolveStrategy(job)
	if err != nil {
		return "", err
	}

	var result image.Image
	switch job.PipelineName() {
	case model.PipelineProcedural:
		result, err = s.runProcedural(ctx, job, strategy)
	case model.PipelineEdit:
		result, err = s.runEdit(ctx, job, strategy)
	default:
		return "", fmt.Errorf("unknown pipeline %q", job.PipelineName())
	}
	if err != nil {
		return "", err
	}

	return s.upload(ctx, job.ID, result)
}

// finish - 최종 상태 기록. 실패 시 Job은 processing에 남음
func (s *Service) finish(ctx context.Context, logger zerolog.Logger, jobID, status, resultURL string) {
	if !model.CanTransition(model.StatusProcessing, status) {
		logger.Error().Str("status", status).Msg("❌ Invalid terminal status")
		return
	}
	if err := s.jobs.UpdateStatus(ctx, jobID, status, resultURL); err != nil {
		logger.Error().Err(err).Str("status", status).Msg("❌ Failed to write terminal status")
		return
	}
	s.notify(ctx, logger, jobID, status, resultURL)
}

// notify is best effort; a publish failure never changes the job outcome.
func (s *Service) notify(ctx context.Context, logger zerolog.Logger, jobID, status, resultURL string) {
	if s.notifier == nil {
		return
	}
	event := model.StatusEvent{
		JobID:             jobID,
		Status:            status,
		ProcessedImageURL: resultURL,
		At:                time.Now().UTC(),
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		logger.Warn().Err(err).Str("status", status).Msg("⚠️  Failed to publish status event")
	}
}

// analyze - 원본 다운로드, 디코딩, 비전 분석
func (s *Service) analyze(ctx context.Context, job *model.DesignJob) (image.Image, wallanalysis.WallEstimate, error) {
	data, err := s.images.DownloadImage(ctx, job.OriginalImageURL)
	if err != nil {
		return nil, wallanalysis.WallEstimate{}, fmt.Errorf("failed to download original image: %w", err)
	}

	base, format, err := utils.DecodeImage(data)
	if err != nil {
		return nil, wallanalysis.WallEstimate{}, err
	}

	raw, err := s.analyzer.AnalyzeWall(ctx, data, utils.DetectMimeType(data), job.PromptText())
	if err != nil {
		return nil, wallanalysis.WallEstimate{}, fmt.Errorf("wall analysis failed: %w", err)
	}

	est := wallanalysis.ParseWallAnalysis(raw)
	log.Info().
		Str("job_id", job.ID).
		Str("format", format).
		Float64("width_ft", est.WidthFt).
		Float64("height_ft", est.HeightFt).
		Str("lighting", string(est.Lighting)).
		Msg("🔍 Wall analyzed")
	return base, est, nil
}

// upload - PNG 인코딩 후 설정에 따라 WebP 변환, 업로드
func (s *Service) upload(ctx context.Context, jobID string, img image.Image) (string, error) {
	data, err := utils.EncodePNG(img)
	if err != nil {
		return "", err
	}

	contentType, ext := "image/png", "png"
	if s.output.Format == "webp" {
		data, err = utils.ConvertPNGToWebP(data, s.output.WebPQuality)
		if err != nil {
			return "", err
		}
		contentType, ext = "image/webp", "webp"
	}

	url, err := s.images.UploadDesignImage(ctx, jobID, data, contentType, ext)
	if err != nil {
		return "", fmt.Errorf("failed to upload result: %w", err)
	}
	return url, nil
}

// resolveStrategy - 명시된 전략 우선, 없으면 Job ID 기반 결정적 선택
func resolveStrategy(job *model.DesignJob) (panel.Strategy, error) {
	if job.LayoutStrategy != nil && *job.LayoutStrategy != "" {
		return panel.ParseStrategy(*job.LayoutStrategy)
	}
	return panel.StrategyForKey(job.ID), nil
}
