package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is an output mime type.
type Format string

const (
	FormatJPEG Format = "image/jpeg"
	FormatPNG  Format = "image/png"
)

// DefaultJPEGQuality matches the 0.92 quality browsers use for canvas exports.
const DefaultJPEGQuality = 92

// ParseFormat accepts mime types and the common short names.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "image/jpeg", "image/jpg", "jpeg", "jpg":
		return FormatJPEG, nil
	case "image/png", "png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// Extension returns the file extension without the dot. Everything that is not
// PNG is written as JPEG.
func (f Format) Extension() string {
	if f == FormatPNG {
		return "png"
	}
	return "jpg"
}

// Lossless reports whether f preserves pixels exactly.
func (f Format) Lossless() bool { return f == FormatPNG }

// Encoder writes composites to bytes.
type Encoder struct {
	JPEGQuality int
}

// Encode encodes img as f. It fails with ErrEncodeFailure rather than return
// an empty result.
func (e Encoder) Encode(img image.Image, f Format) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrEncodeFailure)
	}
	var buf bytes.Buffer
	var err error
	if f.Lossless() {
		err = imaging.Encode(&buf, img, imaging.PNG)
	} else {
		q := e.JPEGQuality
		if q <= 0 || q > 100 {
			q = DefaultJPEGQuality
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncodeFailure, f, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: %s: no output", ErrEncodeFailure, f)
	}
	return buf.Bytes(), nil
}
