package imagepkg

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// DefaultBackground is used when no background color is given.
const DefaultBackground = "#2E2E2E"

// ParseColor parses a CSS-style color: #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb(r,g,b), rgba(r,g,b,a), a named color or "transparent".
// An empty string yields DefaultBackground.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = strings.ToLower(DefaultBackground)
	}

	switch {
	case s == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s)
	case strings.HasPrefix(s, "rgb"):
		return parseFuncColor(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHexColor(s string) (color.NRGBA, error) {
	switch len(s) {
	case 4, 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	case 5, 9:
		// colorful has no alpha; split it off and parse the rest
		n := (len(s) - 1) / 4
		base, alpha := s[:len(s)-n], s[len(s)-n:]
		c, err := parseHexColor(base)
		if err != nil {
			return color.NRGBA{}, err
		}
		a, err := strconv.ParseUint(alpha, 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		if n == 1 {
			a *= 17
		}
		c.A = uint8(a)
		return c, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseFuncColor(s string) (color.NRGBA, error) {
	open, closing := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || closing < open {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	name := strings.TrimSpace(s[:open])
	args := strings.Split(s[open+1:closing], ",")
	if (name == "rgb" && len(args) != 3) || (name == "rgba" && len(args) != 4) || (name != "rgb" && name != "rgba") {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(args[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		ch[i] = uint8(v)
	}
	c := color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}
	if len(args) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		c.A = uint8(round(a * 255))
	}
	return c, nil
}
