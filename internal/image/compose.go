package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// Style selects the layers drawn between the background and the image.
type Style string

const (
	StylePlain    Style = "plain"
	StyleShadowed Style = "shadowed"
)

// ParseStyle accepts "plain" (or empty) and "shadowed" (or "shadow").
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(StylePlain):
		return StylePlain, nil
	case string(StyleShadowed), "shadow":
		return StyleShadowed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStyle, s)
}

// DefaultMaxCanvasPixels admits the widest allowed aspect at the default long side.
const DefaultMaxCanvasPixels = 2000 * 2000 * MaxAspectRatio

// Engine lays a source image out on a fixed-aspect canvas.
// The zero value is not useful; start from DefaultEngine.
type Engine struct {
	Canvas CanvasBounds
	Shadow ShadowParams
}

// DefaultEngine returns the engine with the stock export sizes and shadow constants.
func DefaultEngine() Engine {
	return Engine{
		Canvas: CanvasBounds{MinLongSide: 1000, MaxLongSide: 2000, MaxPixels: DefaultMaxCanvasPixels},
		Shadow: ShadowParams{
			WidthRatio: 0.05,
			MinWidth:   16,
			MaxWidth:   40,
			LeftAlpha:  0.35,
			RightAlpha: 0.22,
		},
	}
}

// Layout renders src with the default engine.
func Layout(src image.Image, aspect AspectRatio, bg color.Color, style Style) (*image.NRGBA, error) {
	return DefaultEngine().Layout(src, aspect, bg, style)
}

// Layout composites background, optional shadows and the fit-scaled source onto a
// freshly allocated canvas. The result depends only on the arguments.
func (e Engine) Layout(src image.Image, aspect AspectRatio, bg color.Color, style Style) (*image.NRGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if style != StylePlain && style != StyleShadowed {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStyle, style)
	}
	b := src.Bounds()
	plan, err := e.Plan(b.Dx(), b.Dy(), aspect)
	if err != nil {
		return nil, err
	}

	canvas := imaging.New(plan.CanvasW, plan.CanvasH, bg)

	if style == StyleShadowed {
		canvas = e.paintShadows(canvas, plan)
	}

	// extreme source shapes can round one side down to nothing
	if plan.DrawW > 0 && plan.DrawH > 0 {
		scaled := imaging.Resize(src, plan.DrawW, plan.DrawH, imaging.Lanczos)
		canvas = imaging.Overlay(canvas, scaled, image.Pt(plan.OffsetX, plan.OffsetY), 1.0)
	}
	return canvas, nil
}
