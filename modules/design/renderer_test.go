package design

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"wall-panel-server/modules/composite"
	"wall-panel-server/modules/panel"
	"wall-panel-server/modules/wallanalysis"
)

func TestRendererPlanDefaultEstimate(t *testing.T) {
	r := NewRenderer(panel.DefaultCatalog(), panel.DefaultLayoutConfig(), composite.DefaultStyle())

	plan, err := r.Plan(wallanalysis.DefaultEstimate(), 1000, 800, panel.StrategyStandard)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.SetID != panel.Set5 {
		t.Errorf("set = %v, want Set5", plan.SetID)
	}
	if len(plan.Layout) != 5 || len(plan.Rects) != 5 {
		t.Fatalf("layout=%d rects=%d, want 5/5", len(plan.Layout), len(plan.Rects))
	}
	for i, rect := range plan.Rects {
		if rect.X < 0 || rect.Y < 0 || rect.X+rect.W > 1000 || rect.Y+rect.H > 800 {
			t.Errorf("rect %d out of image: %+v", i, rect)
		}
	}

	again, _ := r.Plan(wallanalysis.DefaultEstimate(), 1000, 800, panel.StrategyStandard)
	for i := range plan.Rects {
		if plan.Rects[i] != again.Rects[i] {
			t.Errorf("rect %d differs between runs", i)
		}
	}
}

func TestRendererRenderKeepsSize(t *testing.T) {
	r := NewRenderer(panel.DefaultCatalog(), panel.DefaultLayoutConfig(), composite.DefaultStyle())
	base := imaging.New(640, 480, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	plan, err := r.Plan(wallanalysis.DefaultEstimate(), 640, 480, panel.StrategyMixed)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	out, err := r.Render(context.Background(), base, plan)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 640, 480) {
		t.Errorf("bounds = %v", out.Bounds())
	}
}
