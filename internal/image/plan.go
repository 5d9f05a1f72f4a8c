package imagepkg

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// MaxAspectRatio bounds how elongated a canvas may be, either way round.
const MaxAspectRatio = 10

// AspectRatio is the target canvas shape, width over height.
type AspectRatio struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ParseAspect parses "<int>/<int>", e.g. "4/5".
func ParseAspect(s string) (AspectRatio, error) {
	ws, hs, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return AspectRatio{}, fmt.Errorf("%w: %q is not of the form w/h", ErrInvalidAspect, s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("%w: width %q", ErrInvalidAspect, ws)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("%w: height %q", ErrInvalidAspect, hs)
	}
	a := AspectRatio{W: float64(w), H: float64(h)}
	if err := a.Validate(); err != nil {
		return AspectRatio{}, err
	}
	return a, nil
}

// Validate reports whether both sides are positive and the ratio lies within
// 1/MaxAspectRatio..MaxAspectRatio.
func (a AspectRatio) Validate() error {
	if !(a.W > 0) || !(a.H > 0) {
		return fmt.Errorf("%w: %v/%v must be positive", ErrInvalidAspect, a.W, a.H)
	}
	if r := a.Ratio(); r > MaxAspectRatio || r < 1.0/MaxAspectRatio {
		return fmt.Errorf("%w: %v is more elongated than %d:1", ErrInvalidAspect, a, MaxAspectRatio)
	}
	return nil
}

// Ratio returns w/h.
func (a AspectRatio) Ratio() float64 { return a.W / a.H }

func (a AspectRatio) String() string {
	return strconv.FormatFloat(a.W, 'f', -1, 64) + "/" + strconv.FormatFloat(a.H, 'f', -1, 64)
}

// CanvasBounds clamps the long side of the source before it becomes the canvas height.
// MaxPixels caps the canvas area; zero means no cap.
type CanvasBounds struct {
	MinLongSide int   `json:"min_long_side"`
	MaxLongSide int   `json:"max_long_side"`
	MaxPixels   int64 `json:"max_pixels"`
}

// RenderPlan is the geometry of one composite, derived from the source size and aspect.
type RenderPlan struct {
	CanvasW int     `json:"canvas_width"`
	CanvasH int     `json:"canvas_height"`
	Scale   float64 `json:"scale"`
	DrawW   int     `json:"draw_width"`
	DrawH   int     `json:"draw_height"`
	OffsetX int     `json:"offset_x"`
	OffsetY int     `json:"offset_y"`
}

// Plan computes the render plan with the default canvas bounds.
func Plan(width, height int, aspect AspectRatio) (RenderPlan, error) {
	return DefaultEngine().Plan(width, height, aspect)
}

// Plan computes where a width x height source lands on the canvas.
// The canvas height is the clamped long side and the width follows the aspect ratio.
// The source is fit-scaled (never cropped) and centered.
func (e Engine) Plan(width, height int, aspect AspectRatio) (RenderPlan, error) {
	if width <= 0 || height <= 0 {
		return RenderPlan{}, fmt.Errorf("%w: %dx%d has no area", ErrInvalidImage, width, height)
	}
	if err := aspect.Validate(); err != nil {
		return RenderPlan{}, err
	}

	longSide := clamp(max(width, height), e.Canvas.MinLongSide, e.Canvas.MaxLongSide)
	var p RenderPlan
	p.CanvasH = longSide
	canvasW := float64(p.CanvasH) * aspect.W / aspect.H
	if limit := e.Canvas.MaxPixels; limit > 0 && canvasW*float64(p.CanvasH) > float64(limit) {
		return RenderPlan{}, fmt.Errorf("%w: %.0fx%d exceeds %d pixels", ErrCanvasTooLarge, canvasW, p.CanvasH, limit)
	}
	p.CanvasW = round(canvasW)

	p.Scale = math.Min(float64(p.CanvasW)/float64(width), float64(p.CanvasH)/float64(height))
	p.DrawW = round(float64(width) * p.Scale)
	p.DrawH = round(float64(height) * p.Scale)
	p.OffsetX = round(float64(p.CanvasW-p.DrawW) / 2)
	p.OffsetY = round(float64(p.CanvasH-p.DrawH) / 2)
	return p, nil
}

// Canvas returns the full canvas rectangle.
func (p RenderPlan) Canvas() image.Rectangle {
	return image.Rect(0, 0, p.CanvasW, p.CanvasH)
}

// Footprint returns the rectangle the scaled source occupies.
func (p RenderPlan) Footprint() image.Rectangle {
	return image.Rect(p.OffsetX, p.OffsetY, p.OffsetX+p.DrawW, p.OffsetY+p.DrawH)
}

// round matches the browser's Math.round for the non-negative values used here.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
