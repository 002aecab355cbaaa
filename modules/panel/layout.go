package panel

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
)

// Strategy - 패널 배치 방식
type Strategy string

const (
	StrategyStandard   Strategy = "standard"
	StrategyStaggered  Strategy = "staggered"
	StrategyAsymmetric Strategy = "asymmetric"
	StrategyMixed      Strategy = "mixed"
)

// Strategies lists every supported placement strategy in a stable order.
var Strategies = []Strategy{StrategyStandard, StrategyStaggered, StrategyAsymmetric, StrategyMixed}

var ErrUnknownStrategy = errors.New("unknown layout strategy")

// ParseStrategy accepts a strategy name; empty input is an error so callers
// decide how to fall back.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// StrategyForKey picks a strategy deterministically from an arbitrary key
// (usually the job id) so the same job always renders the same way.
func StrategyForKey(key string) Strategy {
	h := fnv.New32a()
	h.Write([]byte(key))
	return Strategies[h.Sum32()%uint32(len(Strategies))]
}

// LayoutPanel - 벽 대비 퍼센트 좌표 (중심점 + 크기)
type LayoutPanel struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LayoutConfig holds the physical constants of the placement strategies.
type LayoutConfig struct {
	DefaultGapFt      float64
	MinGapFt          float64
	BottomMarginFt    float64
	StaggerOffsetsFt  []float64
	TightGapFt        float64
	WideGapFt         float64
	RotateMaxHeightFt float64
}

// DefaultLayoutConfig returns the production layout constants.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		DefaultGapFt:      0.5,
		MinGapFt:          0.1,
		BottomMarginFt:    1.5,
		StaggerOffsetsFt:  []float64{0, 0.8, 0.3, 1.0, 0.5},
		TightGapFt:        0.25,
		WideGapFt:         1.0,
		RotateMaxHeightFt: 2,
	}
}

// Generator turns a panel set into wall-relative rectangles.
type Generator struct {
	catalog *Catalog
	cfg     LayoutConfig
}

func NewGenerator(catalog *Catalog, cfg LayoutConfig) *Generator {
	offsets := make([]float64, len(cfg.StaggerOffsetsFt))
	copy(offsets, cfg.StaggerOffsetsFt)
	cfg.StaggerOffsetsFt = offsets
	return &Generator{catalog: catalog, cfg: cfg}
}

// placed is a panel in feet, center-anchored, before normalization.
type placed struct {
	centerX, centerY float64
	width, height    float64
}

// GenerateLayout - 세트를 펼치고 전략에 따라 배치
//
// The result always has TotalPanelCount entries in left-to-right order. Panel
// sizes are never altered; when the row cannot fit even with the minimum gap
// it overflows and the pixel mapper clamps or drops what falls outside.
func (g *Generator) GenerateLayout(setID SetID, wallWidthFt, wallHeightFt float64, strategy Strategy) ([]LayoutPanel, error) {
	if wallWidthFt <= 0 || wallHeightFt <= 0 {
		return nil, fmt.Errorf("wall dimensions must be positive, got %.2fx%.2f ft", wallWidthFt, wallHeightFt)
	}
	set, err := g.catalog.Set(setID)
	if err != nil {
		return nil, err
	}

	panels := set.Expand()
	sortTallestFirst(panels)

	var gaps []float64
	switch strategy {
	case StrategyStandard, StrategyStaggered:
		gaps = g.uniformGaps(panels, wallWidthFt)
	case StrategyAsymmetric:
		gaps = g.alternatingGaps(panels, wallWidthFt)
	case StrategyMixed:
		panels = g.rotateShortPanels(panels)
		gaps = g.uniformGaps(panels, wallWidthFt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	row := placeRow(panels, gaps, wallWidthFt)

	for i := range row {
		if strategy == StrategyStaggered {
			row[i].centerY = g.staggeredCenterY(i, row[i].height, wallHeightFt)
		} else {
			row[i].centerY = wallHeightFt - g.cfg.BottomMarginFt - row[i].height/2
		}
	}

	out := make([]LayoutPanel, len(row))
	for i, p := range row {
		out[i] = LayoutPanel{
			X:      clampPct(p.centerX / wallWidthFt * 100),
			Y:      clampPct(p.centerY / wallHeightFt * 100),
			Width:  clampPct(p.width / wallWidthFt * 100),
			Height: clampPct(p.height / wallHeightFt * 100),
		}
	}
	return out, nil
}

func sortTallestFirst(panels []IndividualPanel) {
	sort.SliceStable(panels, func(i, j int) bool {
		return panels[i].HeightFt > panels[j].HeightFt
	})
}

// uniformGaps shrinks the default gap so the row fits exactly, but never
// below MinGapFt.
func (g *Generator) uniformGaps(panels []IndividualPanel, wallWidthFt float64) []float64 {
	n := len(panels)
	if n < 2 {
		return nil
	}
	widths := sumWidths(panels)
	gap := g.cfg.DefaultGapFt
	if widths+float64(n-1)*gap > wallWidthFt {
		gap = math.Max(g.cfg.MinGapFt, (wallWidthFt-widths)/float64(n-1))
	}
	gaps := make([]float64, n-1)
	for i := range gaps {
		gaps[i] = gap
	}
	return gaps
}

// alternatingGaps uses tight, wide, tight, ... between successive panels.
// If the row would overflow, the gaps are scaled by one factor; gaps that
// would drop below MinGapFt are pinned there and the remaining space is
// shared by the others.
func (g *Generator) alternatingGaps(panels []IndividualPanel, wallWidthFt float64) []float64 {
	n := len(panels)
	if n < 2 {
		return nil
	}
	base := make([]float64, n-1)
	total := 0.0
	for i := range base {
		if i%2 == 0 {
			base[i] = g.cfg.TightGapFt
		} else {
			base[i] = g.cfg.WideGapFt
		}
		total += base[i]
	}

	available := wallWidthFt - sumWidths(panels)
	if available >= total || total <= 0 {
		return base
	}

	pinned := make([]bool, len(base))
	for {
		free, pinnedCount := 0.0, 0
		for i, gap := range base {
			if pinned[i] {
				pinnedCount++
			} else {
				free += gap
			}
		}
		if free <= 0 {
			break
		}
		scale := math.Max(0, (available-float64(pinnedCount)*g.cfg.MinGapFt)/free)

		changed := false
		for i, gap := range base {
			if !pinned[i] && gap*scale < g.cfg.MinGapFt {
				pinned[i] = true
				changed = true
			}
		}
		if changed {
			continue
		}

		gaps := make([]float64, len(base))
		for i, gap := range base {
			if pinned[i] {
				gaps[i] = g.cfg.MinGapFt
			} else {
				gaps[i] = gap * scale
			}
		}
		return gaps
	}

	// Every gap is at the floor and the row still overflows.
	gaps := make([]float64, len(base))
	for i := range gaps {
		gaps[i] = g.cfg.MinGapFt
	}
	return gaps
}

// rotateShortPanels lays panels no taller than RotateMaxHeightFt on their
// side when they sit at an even index, then moves the rotated ones to the end
// of the row.
func (g *Generator) rotateShortPanels(panels []IndividualPanel) []IndividualPanel {
	upright := make([]IndividualPanel, 0, len(panels))
	rotated := make([]IndividualPanel, 0, len(panels))
	for i, p := range panels {
		if i%2 == 0 && p.HeightFt <= g.cfg.RotateMaxHeightFt {
			rotated = append(rotated, IndividualPanel{WidthFt: p.HeightFt, HeightFt: p.WidthFt})
			continue
		}
		upright = append(upright, p)
	}
	sortTallestFirst(upright)
	return append(upright, rotated...)
}

func (g *Generator) staggeredCenterY(index int, heightFt, wallHeightFt float64) float64 {
	offsets := g.cfg.StaggerOffsetsFt
	if len(offsets) == 0 {
		return wallHeightFt / 2
	}
	maxOffset := 0.0
	for _, o := range offsets {
		maxOffset = math.Max(maxOffset, o)
	}
	return wallHeightFt/2 + offsets[index%len(offsets)] - maxOffset/2
}

// placeRow centers the whole group horizontally and walks it left to right.
func placeRow(panels []IndividualPanel, gaps []float64, wallWidthFt float64) []placed {
	total := sumWidths(panels)
	for _, gap := range gaps {
		total += gap
	}

	currentX := math.Max(0, (wallWidthFt-total)/2)
	row := make([]placed, len(panels))
	for i, p := range panels {
		row[i] = placed{
			centerX: currentX + p.WidthFt/2,
			width:   p.WidthFt,
			height:  p.HeightFt,
		}
		currentX += p.WidthFt
		if i < len(gaps) {
			currentX += gaps[i]
		}
	}
	return row
}

func sumWidths(panels []IndividualPanel) float64 {
	total := 0.0
	for _, p := range panels {
		total += p.WidthFt
	}
	return total
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
