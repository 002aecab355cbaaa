package wallanalysis

// WallBounds - 이미지 대비 퍼센트로 표현한 벽 영역 (좌상단 + 크기)
type WallBounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Lighting - 사진 속 주 광원 방향
type Lighting string

const (
	LightLeft     Lighting = "left"
	LightRight    Lighting = "right"
	LightTop      Lighting = "top"
	LightTopLeft  Lighting = "top-left"
	LightTopRight Lighting = "top-right"
)

// WallEstimate - 검증/보정이 끝난 벽 분석 결과
type WallEstimate struct {
	Bounds   WallBounds `json:"wallBounds"`
	WidthFt  float64    `json:"wallWidthFt"`
	HeightFt float64    `json:"wallHeightFt"`
	Lighting Lighting   `json:"lightingDirection"`
}

// Valid ranges and defaults for every field the vision model reports.
const (
	MinBoundsOffset = 0.0
	MaxBoundsOffset = 100.0
	MinBoundsSize   = 20.0
	MaxBoundsSize   = 100.0

	MinWallWidthFt  = 5.0
	MaxWallWidthFt  = 30.0
	MinWallHeightFt = 6.0
	MaxWallHeightFt = 15.0

	DefaultWallWidthFt  = 12.0
	DefaultWallHeightFt = 8.0
	DefaultLighting     = LightTopLeft
)

// DefaultBounds is used whenever the model's bounds are missing.
var DefaultBounds = WallBounds{X: 15, Y: 15, Width: 70, Height: 70}

// DefaultEstimate returns the estimate substituted when nothing usable was
// returned by the vision model.
func DefaultEstimate() WallEstimate {
	return WallEstimate{
		Bounds:   DefaultBounds,
		WidthFt:  DefaultWallWidthFt,
		HeightFt: DefaultWallHeightFt,
		Lighting: DefaultLighting,
	}
}
