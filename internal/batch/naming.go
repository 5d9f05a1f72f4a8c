package batch

import (
	"strings"

	imagepkg "github.com/youruser/reframe/internal/image"
)

// DefaultSuffix is appended to the base name of every converted file.
const DefaultSuffix = "_converted"

// StripExtension drops everything from the last dot on.
func StripExtension(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot == -1 {
		return name
	}
	return name[:dot]
}

// OutputName derives the artifact name, e.g. "IMG_01.png" -> "IMG_01_converted.jpg".
func OutputName(original, suffix string, f imagepkg.Format) string {
	return StripExtension(original) + suffix + "." + f.Extension()
}
