package processing

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/menta2k/image-batcher/internal/utils"
	"github.com/menta2k/image-batcher/pkg/cropper"
	"github.com/menta2k/image-batcher/pkg/imageio"
	"github.com/menta2k/image-batcher/pkg/params"
)

const (
	opCrop  = "crop"
	opScale = "scale"
)

// Codec is the decode/encode pair an Executor drives
type Codec interface {
	LoadImage(path string) (image.Image, error)
	SaveImage(img image.Image, path string) error
}

// PixelLimiter is implemented by codecs that cap image sizes
type PixelLimiter interface {
	MaxPixels() int64
}

// Executor runs one decode, one transform and one encode per call. Decoded
// images are never retained between calls.
type Executor struct {
	codec     Codec
	maxPixels int64
	logger    *zap.Logger
}

// NewExecutor creates a new executor using the given codec. Scaled outputs
// are capped by the codec's MaxPixels when it has one, and by
// imageio.DefaultMaxPixels otherwise.
func NewExecutor(codec Codec, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codec == nil {
		codec = imageio.New(logger)
	}

	maxPixels := imageio.DefaultMaxPixels
	if limiter, ok := codec.(PixelLimiter); ok && limiter.MaxPixels() > 0 {
		maxPixels = limiter.MaxPixels()
	}
	return &Executor{codec: codec, maxPixels: maxPixels, logger: logger}
}

// ExecuteCrop extracts regionText from the image at inputPath and writes it
// to outputDir under the input's file name
func (e *Executor) ExecuteCrop(inputPath, outputDir, regionText string) (err error) {
	defer e.recoverFault(opCrop, inputPath, &err)

	img, err := e.codec.LoadImage(inputPath)
	if err != nil {
		return &OpError{Op: opCrop, Path: inputPath, Kind: ErrDecode, Err: err}
	}

	region, err := params.ParseRegion(regionText)
	if err != nil {
		return &OpError{Op: opCrop, Path: inputPath, Kind: params.ErrMalformedRegion, Err: err}
	}

	cropped, clamped, err := cropper.ClampAndExtract(img, region)
	if err != nil {
		return &OpError{Op: opCrop, Path: inputPath, Kind: cropper.ErrOutOfBounds, Err: err}
	}

	e.logger.Debug("cropping image",
		zap.String("input", inputPath),
		zap.Stringer("requested", region),
		zap.Stringer("clamped", clamped),
	)

	return e.write(opCrop, cropped, inputPath, outputDir)
}

// ExecuteScale resizes the image at inputPath uniformly by scaleText and
// writes it to outputDir under the input's file name
func (e *Executor) ExecuteScale(inputPath, outputDir, scaleText string) (err error) {
	defer e.recoverFault(opScale, inputPath, &err)

	img, err := e.codec.LoadImage(inputPath)
	if err != nil {
		return &OpError{Op: opScale, Path: inputPath, Kind: ErrDecode, Err: err}
	}

	scale, err := params.ParseScale(scaleText)
	if err != nil {
		return &OpError{Op: opScale, Path: inputPath, Kind: params.ErrMalformedScale, Err: err}
	}

	scaled, err := Scale(img, scale, e.maxPixels)
	if err != nil {
		return &OpError{Op: opScale, Path: inputPath, Kind: ErrTransform, Err: err}
	}

	e.logger.Debug("scaled image",
		zap.String("input", inputPath),
		zap.Float64("scale", scale),
		zap.Int("width", scaled.Bounds().Dx()),
		zap.Int("height", scaled.Bounds().Dy()),
	)

	return e.write(opScale, scaled, inputPath, outputDir)
}

func (e *Executor) write(op string, img image.Image, inputPath, outputDir string) error {
	outputPath := utils.OutputPath(inputPath, outputDir)
	if err := e.codec.SaveImage(img, outputPath); err != nil {
		return &OpError{Op: op, Path: outputPath, Kind: ErrEncode, Err: err}
	}
	return nil
}

// recoverFault turns a panic inside an operation into an ErrTransform result
func (e *Executor) recoverFault(op, path string, err *error) {
	r := recover()
	if r == nil {
		return
	}

	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%v", r)
	}
	e.logger.Error("operation panicked",
		zap.String("op", op),
		zap.String("path", path),
		zap.Any("panic", r),
	)
	*err = &OpError{Op: op, Path: path, Kind: ErrTransform, Err: cause}
}

// ScaledSize returns round(width*scale) x round(height*scale). The size is
// checked in float64 against maxPixels before it is converted to int.
func ScaledSize(width, height int, scale float64, maxPixels int64) (int, int, error) {
	if maxPixels <= 0 {
		maxPixels = imageio.DefaultMaxPixels
	}

	w := math.Round(float64(width) * scale)
	h := math.Round(float64(height) * scale)
	switch {
	case math.IsNaN(w) || math.IsNaN(h) || math.IsInf(w, 0) || math.IsInf(h, 0):
		return 0, 0, fmt.Errorf("scaled size of %dx%d by %v is not finite", width, height, scale)
	case w < 1 || h < 1:
		return 0, 0, fmt.Errorf("scaled image would be empty: %dx%d by %v", width, height, scale)
	case w*h > float64(maxPixels):
		return 0, 0, fmt.Errorf("%w: %.0fx%.0f exceeds %d pixels", imageio.ErrTooLarge, w, h, maxPixels)
	}
	return int(w), int(h), nil
}

// Scale resizes img uniformly. Shrinking averages source areas with a box
// filter; enlarging uses Catmull-Rom interpolation. Nothing is allocated
// when the result would exceed maxPixels.
func Scale(img image.Image, scale float64, maxPixels int64) (image.Image, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("invalid scale factor %v", scale)
	}

	bounds := img.Bounds()
	width, height, err := ScaledSize(bounds.Dx(), bounds.Dy(), scale, maxPixels)
	if err != nil {
		return nil, err
	}

	switch {
	case scale < 1:
		return imaging.Resize(img, width, height, imaging.Box), nil
	case scale > 1:
		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		return dst, nil
	default:
		return imaging.Clone(img), nil
	}
}
