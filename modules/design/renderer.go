package design

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"wall-panel-server/modules/composite"
	"wall-panel-server/modules/panel"
	"wall-panel-server/modules/wallanalysis"
)

// Plan - 한 이미지에 대한 패널 배치 결과
type Plan struct {
	Estimate wallanalysis.WallEstimate
	SetID    panel.SetID
	Strategy panel.Strategy
	Layout   []panel.LayoutPanel
	Rects    []composite.PixelRect
}

// Renderer runs selection, layout, mapping and compositing. It holds only
// immutable configuration and is safe to share between jobs.
type Renderer struct {
	catalog    *panel.Catalog
	generator  *panel.Generator
	style      composite.Style
	minPanelPx int
}

func NewRenderer(catalog *panel.Catalog, layout panel.LayoutConfig, style composite.Style) *Renderer {
	return &Renderer{
		catalog:    catalog,
		generator:  panel.NewGenerator(catalog, layout),
		style:      style,
		minPanelPx: composite.DefaultMinPanelPx,
	}
}

// Plan - 세트 선택 -> 레이아웃 -> 픽셀 매핑
func (r *Renderer) Plan(est wallanalysis.WallEstimate, imageWidth, imageHeight int, strategy panel.Strategy) (Plan, error) {
	setID := r.catalog.SelectBestPanelSet(est.WidthFt, est.HeightFt)

	layout, err := r.generator.GenerateLayout(setID, est.WidthFt, est.HeightFt, strategy)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to generate layout: %w", err)
	}

	rects := composite.MapToPixelsMin(layout, est.Bounds, imageWidth, imageHeight, r.minPanelPx)

	log.Debug().
		Int("set_id", int(setID)).
		Str("strategy", string(strategy)).
		Int("panels", len(layout)).
		Int("rects", len(rects)).
		Msg("📐 Layout planned")

	return Plan{
		Estimate: est,
		SetID:    setID,
		Strategy: strategy,
		Layout:   layout,
		Rects:    rects,
	}, nil
}

// Render - 계획된 패널을 원본 이미지에 합성
func (r *Renderer) Render(ctx context.Context, base image.Image, plan Plan) (*image.NRGBA, error) {
	style := r.style.WithLighting(plan.Estimate.Lighting)
	return composite.Composite(ctx, base, plan.Rects, style)
}
