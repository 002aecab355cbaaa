package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestLetterboxLandscape(t *testing.T) {
	src := imaging.New(400, 200, color.NRGBA{R: 255, A: 255})

	canvas, content := Letterbox(src, 100)

	if canvas.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("canvas = %v", canvas.Bounds())
	}
	if content != image.Rect(0, 25, 100, 75) {
		t.Errorf("content = %v, want (0,25)-(100,75)", content)
	}
	if got := canvas.NRGBAAt(50, 10); got != (color.NRGBA{A: 255}) {
		t.Errorf("padding pixel = %v, want opaque black", got)
	}
	if got := canvas.NRGBAAt(50, 50); got.R < 250 {
		t.Errorf("content pixel = %v, want red", got)
	}
}

func TestLetterboxExtractRoundTrip(t *testing.T) {
	src := imaging.New(300, 500, color.NRGBA{G: 200, A: 255})

	canvas, content := Letterbox(src, 256)
	if content.Dx() >= content.Dy() {
		t.Fatalf("portrait content = %v", content)
	}

	// model answered at twice the size it was sent
	edited := imaging.Resize(canvas, 512, 512, imaging.NearestNeighbor)
	out := Extract(edited, content, 256, 300, 500)

	if out.Bounds() != image.Rect(0, 0, 300, 500) {
		t.Fatalf("extracted = %v", out.Bounds())
	}
	for _, p := range []image.Point{{0, 0}, {150, 250}, {299, 499}} {
		if got := out.NRGBAAt(p.X, p.Y); got.G < 190 || got.R > 10 {
			t.Errorf("pixel %v = %v, padding leaked into extract", p, got)
		}
	}
}

func TestEncodeDecodePNG(t *testing.T) {
	data, err := EncodePNG(imaging.New(8, 4, color.NRGBA{B: 255, A: 255}))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if DetectMimeType(data) != "image/png" {
		t.Errorf("mime = %s", DetectMimeType(data))
	}
	img, format, err := DecodeImage(data)
	if err != nil || format != "png" || img.Bounds().Dx() != 8 {
		t.Errorf("decode = %v %s %v", img.Bounds(), format, err)
	}
	if _, _, err := DecodeImage([]byte("nope")); err == nil {
		t.Error("garbage decoded")
	}
}
