package composite

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"runtime"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrNoPanels means every panel was clamped away or filtered out.
var ErrNoPanels = errors.New("no panels survived pixel mapping")

// layer is one rendered buffer and where its top-left goes on the base image.
type layer struct {
	img *image.NRGBA
	at  image.Point
}

// panelLayers - 패널 하나의 레이어 묶음 (shadow -> fill -> highlights)
type panelLayers struct {
	shadow     *layer
	fill       layer
	highlights []layer
}

// Composite - 베이스 이미지 위에 패널 합성
//
// Panels are rasterized concurrently, then drawn in input order with each
// panel's shadow beneath its fill and its highlights above it. Later panels
// cover earlier ones. The base image is not modified.
func Composite(ctx context.Context, base image.Image, rects []PixelRect, style Style) (*image.NRGBA, error) {
	if len(rects) == 0 {
		return nil, ErrNoPanels
	}

	bounds := base.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()

	layers := make([]panelLayers, len(rects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, r := range rects {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			layers[i] = renderPanel(i, r, style, imgW, imgH)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dst := imaging.Clone(base)
	for _, pl := range layers {
		if pl.shadow != nil {
			drawLayer(dst, *pl.shadow)
		}
		drawLayer(dst, pl.fill)
		for _, h := range pl.highlights {
			drawLayer(dst, h)
		}
	}

	log.Debug().
		Int("panels", len(rects)).
		Int("width", imgW).
		Int("height", imgH).
		Msg("🎨 Panels composited")
	return dst, nil
}

func drawLayer(dst *image.NRGBA, l layer) {
	b := l.img.Bounds()
	target := image.Rectangle{Min: l.at, Max: l.at.Add(b.Size())}
	draw.Draw(dst, target, l.img, b.Min, draw.Over)
}

func renderPanel(index int, r PixelRect, style Style, imgW, imgH int) panelLayers {
	var pl panelLayers

	if style.Shadow.Enabled {
		pl.shadow = renderShadow(r, style, imgW, imgH)
	}

	pl.fill = layer{
		img: imaging.New(r.W, r.H, style.fillColor(index)),
		at:  image.Pt(r.X, r.Y),
	}

	if style.Highlight.Enabled {
		pl.highlights = renderHighlights(r, style)
	}
	return pl
}

// renderShadow draws a translucent black rectangle on a padded canvas and
// blurs it, so the soft edge has room to fall off.
func renderShadow(r PixelRect, style Style, imgW, imgH int) *layer {
	s := style.Shadow
	pad := int(math.Ceil(3 * s.BlurSigma))
	canvas := imaging.New(r.W+2*pad, r.H+2*pad, color.NRGBA{})
	shade := image.NewUniform(color.NRGBA{A: alpha8(s.Opacity)})
	draw.Draw(canvas, image.Rect(pad, pad, pad+r.W, pad+r.H), shade, image.Point{}, draw.Src)

	img := canvas
	if s.BlurSigma > 0 {
		img = imaging.Blur(canvas, s.BlurSigma)
	}

	dx, dy := s.shadowOffset(style.Lighting, imgW, imgH)
	return &layer{img: img, at: image.Pt(r.X-pad+dx, r.Y-pad+dy)}
}

// renderHighlights returns thin light strips along the lit edges.
func renderHighlights(r PixelRect, style Style) []layer {
	h := style.Highlight
	thickness := int(math.Round(float64(min(r.W, r.H)) * h.ThicknessRatio))
	if thickness < 1 {
		thickness = 1
	}
	light := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: alpha8(h.Opacity)}

	top, left, right := litEdges(style.Lighting)
	var out []layer
	if top {
		out = append(out, layer{img: imaging.New(r.W, thickness, light), at: image.Pt(r.X, r.Y)})
	}
	if left {
		out = append(out, layer{img: imaging.New(thickness, r.H, light), at: image.Pt(r.X, r.Y)})
	}
	if right {
		out = append(out, layer{img: imaging.New(thickness, r.H, light), at: image.Pt(r.X+r.W-thickness, r.Y)})
	}
	return out
}
