package composite

import (
	"image/color"
	"math"

	"wall-panel-server/modules/wallanalysis"
)

// ShadowStyle - 패널 아래 드롭 섀도우 설정
type ShadowStyle struct {
	Enabled     bool
	Opacity     float64 // 0..1
	BlurSigma   float64 // px, 0 disables blur
	OffsetRatio float64 // offset length as a fraction of min(image w, h)
	MinOffsetPx int
}

// HighlightStyle - 광원 쪽 모서리 하이라이트 설정
type HighlightStyle struct {
	Enabled        bool
	Opacity        float64 // 0..1
	ThicknessRatio float64 // strip thickness as a fraction of min(panel w, h)
}

// Style is the immutable rendering configuration for one composite call.
type Style struct {
	Palette   []color.NRGBA // cycled per panel
	Shadow    ShadowStyle
	Highlight HighlightStyle
	Lighting  wallanalysis.Lighting
}

// DefaultStyle returns charcoal panels with a soft shadow and top/left
// highlights for top-left lighting.
func DefaultStyle() Style {
	return Style{
		Palette: []color.NRGBA{
			{R: 0x22, G: 0x22, B: 0x24, A: 0xff},
		},
		Shadow: ShadowStyle{
			Enabled:     true,
			Opacity:     0.35,
			BlurSigma:   4,
			OffsetRatio: 0.006,
			MinOffsetPx: 2,
		},
		Highlight: HighlightStyle{
			Enabled:        true,
			Opacity:        0.18,
			ThicknessRatio: 0.04,
		},
		Lighting: wallanalysis.DefaultLighting,
	}
}

// FlatStyle renders fills only, no shadow or highlight.
func FlatStyle(fill color.NRGBA) Style {
	return Style{Palette: []color.NRGBA{fill}, Lighting: wallanalysis.DefaultLighting}
}

// WithLighting returns a copy of s lit from l.
func (s Style) WithLighting(l wallanalysis.Lighting) Style {
	palette := make([]color.NRGBA, len(s.Palette))
	copy(palette, s.Palette)
	s.Palette = palette
	s.Lighting = l
	return s
}

func (s Style) fillColor(index int) color.NRGBA {
	if len(s.Palette) == 0 {
		return color.NRGBA{A: 0xff}
	}
	return s.Palette[index%len(s.Palette)]
}

// lightVector points from the light toward where shadows fall, in units of
// the shadow offset.
func lightVector(l wallanalysis.Lighting) (float64, float64) {
	switch l {
	case wallanalysis.LightLeft:
		return 1, 0.5
	case wallanalysis.LightRight:
		return -1, 0.5
	case wallanalysis.LightTop:
		return 0, 1
	case wallanalysis.LightTopRight:
		return -1, 1
	default:
		return 1, 1
	}
}

// litEdges reports which panel edges face the light.
func litEdges(l wallanalysis.Lighting) (top, left, right bool) {
	switch l {
	case wallanalysis.LightLeft:
		return false, true, false
	case wallanalysis.LightRight:
		return false, false, true
	case wallanalysis.LightTop:
		return true, false, false
	case wallanalysis.LightTopRight:
		return true, false, true
	default:
		return true, true, false
	}
}

// shadowOffset scales with image resolution so the shadow reads the same on
// a phone photo and a downscaled preview.
func (s ShadowStyle) shadowOffset(l wallanalysis.Lighting, imageW, imageH int) (int, int) {
	length := math.Round(float64(min(imageW, imageH)) * s.OffsetRatio)
	length = math.Max(length, float64(s.MinOffsetPx))
	vx, vy := lightVector(l)
	return int(math.Round(vx * length)), int(math.Round(vy * length))
}

func alpha8(opacity float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
}
