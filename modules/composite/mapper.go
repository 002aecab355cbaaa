package composite

import (
	"image"
	"math"

	"wall-panel-server/modules/panel"
	"wall-panel-server/modules/wallanalysis"
)

// DefaultMinPanelPx - 이보다 작게 잘린 패널은 버림
const DefaultMinPanelPx = 10

// PixelRect - 이미지 픽셀 공간의 패널 사각형 (좌상단 + 크기)
type PixelRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect converts to an image.Rectangle.
func (r PixelRect) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// MapToPixels places wall-relative layout panels into the image, using
// DefaultMinPanelPx as the drop threshold.
func MapToPixels(panels []panel.LayoutPanel, bounds wallanalysis.WallBounds, imageWidth, imageHeight int) []PixelRect {
	return MapToPixelsMin(panels, bounds, imageWidth, imageHeight, DefaultMinPanelPx)
}

// MapToPixelsMin - 벽 퍼센트 좌표 -> 이미지 픽셀 좌표
//
// Rectangles crossing an image edge are shrunk from that edge. Panels whose
// clamped width or height is below minPx are skipped, so the result can be
// shorter than panels and may be empty.
func MapToPixelsMin(panels []panel.LayoutPanel, bounds wallanalysis.WallBounds, imageWidth, imageHeight, minPx int) []PixelRect {
	wallLeft := bounds.X / 100 * float64(imageWidth)
	wallTop := bounds.Y / 100 * float64(imageHeight)
	wallW := bounds.Width / 100 * float64(imageWidth)
	wallH := bounds.Height / 100 * float64(imageHeight)

	rects := make([]PixelRect, 0, len(panels))
	for _, p := range panels {
		centerX := wallLeft + p.X/100*wallW
		centerY := wallTop + p.Y/100*wallH
		w := int(math.Round(p.Width / 100 * wallW))
		h := int(math.Round(p.Height / 100 * wallH))
		x := int(math.Round(centerX - float64(w)/2))
		y := int(math.Round(centerY - float64(h)/2))

		x, w = clampSpan(x, w, imageWidth)
		y, h = clampSpan(y, h, imageHeight)

		if w <= 0 || h <= 0 || w < minPx || h < minPx {
			continue
		}
		rects = append(rects, PixelRect{X: x, Y: y, W: w, H: h})
	}
	return rects
}

// clampSpan shrinks [pos, pos+size) to fit [0, limit).
func clampSpan(pos, size, limit int) (int, int) {
	if pos < 0 {
		size += pos
		pos = 0
	}
	if pos+size > limit {
		size = limit - pos
	}
	if size < 0 {
		size = 0
	}
	return pos, size
}
