package imagepkg

import "errors"

var (
	// ErrDecodeFailure is returned when a source is not a loadable image.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrEncodeFailure is returned when the encoder produced no bytes.
	ErrEncodeFailure = errors.New("encode failure")

	// ErrInvalidImage is returned for decoded images with zero area.
	ErrInvalidImage = errors.New("invalid image")

	// ErrCanvasTooLarge is returned when a plan would exceed CanvasBounds.MaxPixels.
	ErrCanvasTooLarge = errors.New("canvas too large")

	ErrInvalidAspect = errors.New("invalid aspect ratio")
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidStyle  = errors.New("invalid style")
	ErrInvalidFormat = errors.New("invalid output format")
)
