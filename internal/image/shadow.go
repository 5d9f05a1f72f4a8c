package imagepkg

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ShadowParams sizes the soft strips flanking the left and right image edges.
// Alphas are the opacity at the image edge; they fall linearly to zero outward.
type ShadowParams struct {
	WidthRatio float64 `json:"width_ratio"`
	MinWidth   int     `json:"min_width"`
	MaxWidth   int     `json:"max_width"`
	LeftAlpha  float64 `json:"left_alpha"`
	RightAlpha float64 `json:"right_alpha"`
}

// ShadowWidth is the nominal strip width for this plan.
func (p RenderPlan) ShadowWidth(s ShadowParams) int {
	return clamp(round(float64(p.DrawW)*s.WidthRatio), s.MinWidth, s.MaxWidth)
}

// ShadowStrips returns the left and right strips, clipped to the canvas and to the
// vertical extent of the image. Either may be empty.
func (p RenderPlan) ShadowStrips(s ShadowParams) (left, right image.Rectangle) {
	sw := p.ShadowWidth(s)
	top, bottom := p.OffsetY, p.OffsetY+p.DrawH
	left = image.Rect(max(0, p.OffsetX-sw), top, p.OffsetX, bottom)
	edge := p.OffsetX + p.DrawW
	right = image.Rect(edge, top, min(p.CanvasW, edge+sw), bottom)
	return left, right
}

func (e Engine) paintShadows(canvas *image.NRGBA, plan RenderPlan) *image.NRGBA {
	sw := plan.ShadowWidth(e.Shadow)
	left, right := plan.ShadowStrips(e.Shadow)

	if !left.Empty() {
		strip := gradientStrip(left, func(x int) float64 {
			return shadowAlpha(e.Shadow.LeftAlpha, float64(plan.OffsetX)-(float64(x)+0.5), sw)
		})
		canvas = imaging.Overlay(canvas, strip, left.Min, 1.0)
	}
	if !right.Empty() {
		edge := float64(plan.OffsetX + plan.DrawW)
		strip := gradientStrip(right, func(x int) float64 {
			return shadowAlpha(e.Shadow.RightAlpha, float64(x)+0.5-edge, sw)
		})
		canvas = imaging.Overlay(canvas, strip, right.Min, 1.0)
	}
	return canvas
}

// shadowAlpha interpolates edgeAlpha at the image edge down to 0 at distance sw.
// The midpoint lands on edgeAlpha/2.
func shadowAlpha(edgeAlpha, dist float64, sw int) float64 {
	if sw <= 0 {
		return 0
	}
	t := dist / float64(sw)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		return 0
	}
	return edgeAlpha * (1 - t)
}

// gradientStrip builds a black strip covering r whose per-column alpha comes from
// alphaAt, indexed by canvas x. imaging has no gradient fill, so this is the one
// layer painted pixel by pixel; everything else goes through imaging.
func gradientStrip(r image.Rectangle, alphaAt func(x int) float64) *image.NRGBA {
	strip := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for i := 0; i < r.Dx(); i++ {
		a := uint8(math.Round(255 * math.Max(0, math.Min(1, alphaAt(r.Min.X+i)))))
		c := color.NRGBA{A: a}
		for y := 0; y < r.Dy(); y++ {
			strip.SetNRGBA(i, y, c)
		}
	}
	return strip
}
