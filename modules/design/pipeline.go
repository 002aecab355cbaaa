package design

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"wall-panel-server/modules/common/model"
	"wall-panel-server/modules/common/utils"
	"wall-panel-server/modules/composite"
	"wall-panel-server/modules/panel"
	"wall-panel-server/modules/wallanalysis"
)

// runProcedural - 분석 -> 레이아웃 -> 픽셀 매핑 -> 합성
func (s *Service) runProcedural(ctx context.Context, job *model.DesignJob, strategy panel.Strategy) (image.Image, error) {
	base, est, err := s.analyze(ctx, job)
	if err != nil {
		return nil, err
	}

	b := base.Bounds()
	plan, err := s.renderer.Plan(est, b.Dx(), b.Dy(), strategy)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("job_id", job.ID).
		Int("set_id", int(plan.SetID)).
		Str("strategy", string(strategy)).
		Int("rects", len(plan.Rects)).
		Msg("🎨 Compositing panels")

	return s.renderer.Render(ctx, base, plan)
}

// runEdit - 마스크 기반 이미지 편집 파이프라인
//
// The photo and panel mask are letterboxed onto a square canvas for the
// image model, and the content area of its answer is cropped back to the
// original size.
func (s *Service) runEdit(ctx context.Context, job *model.DesignJob, strategy panel.Strategy) (image.Image, error) {
	if s.editor == nil {
		return nil, fmt.Errorf("edit pipeline requested but no image editor is configured")
	}

	base, est, err := s.analyze(ctx, job)
	if err != nil {
		return nil, err
	}

	b := base.Bounds()
	plan, err := s.renderer.Plan(est, b.Dx(), b.Dy(), strategy)
	if err != nil {
		return nil, err
	}
	if len(plan.Rects) == 0 {
		return nil, composite.ErrNoPanels
	}

	// Mask rects are relative to the image origin.
	mask := composite.BuildMask(b.Dx(), b.Dy(), plan.Rects)

	size := s.output.EditCanvasSize
	boxedImage, content := utils.Letterbox(base, size)
	boxedMask, _ := utils.Letterbox(mask, size)

	log.Info().
		Str("job_id", job.ID).
		Int("set_id", int(plan.SetID)).
		Int("canvas", size).
		Msg("🖌️  Requesting masked edit")

	edited, err := s.editor.EditImage(ctx, boxedImage, boxedMask, wallanalysis.BuildEditPrompt(job.PromptText()))
	if err != nil {
		return nil, err
	}
	if edited == nil {
		return nil, ErrNoEditResult
	}

	return utils.Extract(edited, content, size, b.Dx(), b.Dy()), nil
}
