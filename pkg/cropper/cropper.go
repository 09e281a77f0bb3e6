package cropper

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/menta2k/image-batcher/pkg/types"
)

// ErrOutOfBounds is returned when a region has no overlap with the image
var ErrOutOfBounds = errors.New("region out of bounds")

// Clamp reconciles a requested region with the size of an actual image.
//
// The origin is pulled to zero before the extent is recomputed from the
// original, unclamped far edge, so a region with a negative origin loses the
// part that fell outside the image:
//
//	x' = max(0, x)            y' = max(0, y)
//	w' = min(x+w, imgW) - x'  h' = min(y+h, imgH) - y'
//
// The far edge saturates instead of wrapping, so extents near the int limits
// still clamp to the image.
func Clamp(region types.Region, imageWidth, imageHeight int) (types.Region, error) {
	maxX := min(farEdge(region.X, region.Width), imageWidth)
	maxY := min(farEdge(region.Y, region.Height), imageHeight)
	x := max(0, region.X)
	y := max(0, region.Y)

	clamped := types.Region{X: x, Y: y, Width: maxX - x, Height: maxY - y}
	if clamped.Width <= 0 || clamped.Height <= 0 {
		return types.Region{}, fmt.Errorf("%w: %s on %dx%d image", ErrOutOfBounds, region, imageWidth, imageHeight)
	}
	return clamped, nil
}

// farEdge returns origin+extent saturated to [math.MinInt, math.MaxInt].
func farEdge(origin, extent int) int {
	switch {
	case extent > 0 && origin > math.MaxInt-extent:
		return math.MaxInt
	case extent < 0 && origin < math.MinInt-extent:
		return math.MinInt
	}
	return origin + extent
}

// Extract returns the part of img covered by a region that has already been
// clamped against img's size. Region coordinates are relative to img's
// top-left corner. Pixels are not copied.
func Extract(img image.Image, region types.Region) image.Image {
	bounds := img.Bounds()
	rect := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height).
		Add(bounds.Min).
		Intersect(bounds)

	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}

	return &croppedImage{
		original: img,
		bounds:   rect,
	}
}

// ClampAndExtract clamps region against img and extracts the result
func ClampAndExtract(img image.Image, region types.Region) (image.Image, types.Region, error) {
	bounds := img.Bounds()
	clamped, err := Clamp(region, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, types.Region{}, err
	}
	return Extract(img, clamped), clamped, nil
}

// croppedImage implements the image.Image interface for decoders whose
// results do not support SubImage
type croppedImage struct {
	original image.Image
	bounds   image.Rectangle
}

func (c *croppedImage) ColorModel() color.Model {
	return c.original.ColorModel()
}

func (c *croppedImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.bounds.Dx(), c.bounds.Dy())
}

func (c *croppedImage) At(x, y int) color.Color {
	pt := image.Point{x, y}
	if !pt.In(c.Bounds()) {
		return color.RGBA{}
	}
	return c.original.At(x+c.bounds.Min.X, y+c.bounds.Min.Y)
}
