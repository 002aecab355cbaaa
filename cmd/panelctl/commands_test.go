package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"wall-panel-server/modules/common/utils"
	"wall-panel-server/modules/panel"
	"wall-panel-server/modules/wallanalysis"
)

func TestParseBounds(t *testing.T) {
	got, err := parseBounds("10, 20,60,50")
	if err != nil {
		t.Fatalf("parseBounds: %v", err)
	}
	if got != (wallanalysis.WallBounds{X: 10, Y: 20, Width: 60, Height: 50}) {
		t.Errorf("bounds = %+v", got)
	}
	for _, bad := range []string{"", "1,2,3", "a,b,c,d"} {
		if _, err := parseBounds(bad); err == nil {
			t.Errorf("parseBounds(%q) accepted", bad)
		}
	}
}

func TestLoadEstimateClampsFlags(t *testing.T) {
	est, err := loadEstimate(renderOptions{widthFt: 999, heightFt: 8, bounds: "15,15,70,70", lighting: "right"})
	if err != nil {
		t.Fatalf("loadEstimate: %v", err)
	}
	if est.WidthFt != wallanalysis.MaxWallWidthFt || est.Lighting != wallanalysis.LightRight {
		t.Errorf("estimate = %+v", est)
	}
}

func TestSelectCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"select", "--width-ft", "20", "--height-ft", "10"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out.String()) != "10" {
		t.Errorf("output = %q, want 10", out.String())
	}
}

func TestPrintSets(t *testing.T) {
	var out bytes.Buffer
	printSets(&out, panel.DefaultCatalog())
	for _, want := range []string{"Set 10", "Set 5", "Set 3"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in:\n%s", want, out.String())
		}
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "wall.png")
	data, err := utils.EncodePNG(imaging.New(400, 300, color.NRGBA{R: 230, G: 225, B: 215, A: 255}))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatal(err)
	}

	opts := renderOptions{image: in, strategy: "staggered", widthFt: 12, heightFt: 8, bounds: "15,15,70,70"}
	if err := runRender(context.Background(), opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	outData, err := os.ReadFile(filepath.Join(dir, "wall.panels.png"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	img, _, err := utils.DecodeImage(outData)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Errorf("output bounds = %v", img.Bounds())
	}

	opts.strategy = "spiral"
	if err := runRender(context.Background(), opts); err == nil {
		t.Error("unknown strategy accepted")
	}
}
