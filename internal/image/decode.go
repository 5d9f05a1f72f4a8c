package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/reframe/internal/util"
)

// DefaultMaxSourcePixels bounds the size a source header may declare.
const DefaultMaxSourcePixels = 100_000_000

// Decoder decodes any registered format (JPEG, PNG, GIF, BMP, TIFF, WebP),
// applying EXIF orientation the way browsers do. Sources whose header declares
// more than MaxPixels pixels are rejected before any pixel buffer is allocated.
// Zero MaxPixels means DefaultMaxSourcePixels.
type Decoder struct {
	MaxPixels int64
}

// Decode decodes r with the default pixel limit.
func Decode(r io.Reader) (image.Image, error) {
	return Decoder{}.Decode(r)
}

func (d Decoder) Decode(r io.Reader) (image.Image, error) {
	limit := d.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxSourcePixels
	}

	// the header bytes are replayed in front of the rest of r
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > limit {
		return nil, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", ErrDecodeFailure, cfg.Width, cfg.Height, limit)
	}

	img, err := imaging.Decode(io.MultiReader(&head, r), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return img, nil
}

// DecodeFunc adapts a plain function to a decoder.
type DecodeFunc func(r io.Reader) (image.Image, error)

// Decode calls f(r).
func (f DecodeFunc) Decode(r io.Reader) (image.Image, error) { return f(r) }

// DecodeBytes decodes an in-memory image.
func DecodeBytes(b []byte) (image.Image, error) {
	return Decode(bytes.NewReader(b))
}

// DownloadImage downloads url and decodes it.
func DownloadImage(url string) (image.Image, error) {
	b, err := util.GetBytes(url)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(b)
}
