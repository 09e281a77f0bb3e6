package imageio

import (
	"image/png"
	"strings"
)

// PNGCompressionNames lists the accepted png_compression values
var PNGCompressionNames = []string{"default", "none", "fast", "best"}

func pngCompression(name string) png.CompressionLevel {
	switch strings.ToLower(name) {
	case "none":
		return png.NoCompression
	case "fast":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}
