package composite

import (
	"image"
	"image/color"
	"image/draw"
)

// BuildMask - 편집 API용 마스크 (흰색 = 패널 위치, 검정 = 유지)
func BuildMask(width, height int, rects []PixelRect) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	white := image.NewUniform(color.Gray{Y: 255})
	for _, r := range rects {
		draw.Draw(mask, r.Rect().Intersect(mask.Bounds()), white, image.Point{}, draw.Src)
	}
	return mask
}
