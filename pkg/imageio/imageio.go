// Package imageio decodes input images and encodes results in the container
// implied by the output file name.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
)

var (
	// ErrUnsupportedFormat is returned for containers outside the supported set
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge is returned for images above the configured pixel count
	ErrTooLarge = errors.New("image too large")
)

// DefaultMaxPixels caps decoded and produced images at 16384x16384
const DefaultMaxPixels int64 = 1 << 28

// Config holds codec settings
type Config struct {
	JPEGQuality      int
	PNGCompression   string
	SupportedFormats []string
	// MaxPixels is the largest width*height accepted on decode or produced
	// by a transform. Zero or less means DefaultMaxPixels.
	MaxPixels int64
}

// DefaultConfig returns the codec settings used when none are given
func DefaultConfig() Config {
	return Config{
		JPEGQuality:      95,
		PNGCompression:   "default",
		SupportedFormats: []string{"jpeg", "png", "bmp"},
		MaxPixels:        DefaultMaxPixels,
	}
}

// Loader reads and writes image files
type Loader struct {
	config Config
	logger *zap.Logger
}

// New creates a Loader with default configuration
func New(logger *zap.Logger) *Loader {
	return NewWithConfig(DefaultConfig(), logger)
}

// NewWithConfig creates a Loader with custom configuration
func NewWithConfig(config Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(config.SupportedFormats) == 0 {
		config.SupportedFormats = DefaultConfig().SupportedFormats
	}
	if config.MaxPixels <= 0 {
		config.MaxPixels = DefaultMaxPixels
	}
	return &Loader{config: config, logger: logger}
}

// MaxPixels returns the pixel cap this loader enforces
func (l *Loader) MaxPixels() int64 {
	return l.config.MaxPixels
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width  int
	Height int
	Format string
}

// LoadImage decodes the image at path. The container is detected from the
// file contents, not its name. EXIF orientation is not applied, so region
// coordinates refer to the stored pixel grid.
func (l *Loader) LoadImage(path string) (image.Image, error) {
	info, err := l.Inspect(path)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	l.logger.Debug("decoded image",
		zap.String("path", path),
		zap.String("format", info.Format),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
	)
	return img, nil
}

// Inspect reads only the image header
func (l *Loader) Inspect(path string) (ImageInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to decode image header: %w", err)
	}
	if !l.isFormatSupported(format) {
		return ImageInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > l.config.MaxPixels {
		return ImageInfo{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, l.config.MaxPixels)
	}

	return ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// SaveImage encodes img into path. The container is chosen from the
// extension of path and an existing file is overwritten.
func (l *Loader) SaveImage(img image.Image, path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if !l.isFormatSupported(strings.ToLower(format.String())) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	var opts []imaging.EncodeOption
	switch format {
	case imaging.JPEG:
		opts = append(opts, imaging.JPEGQuality(l.config.JPEGQuality))
	case imaging.PNG:
		opts = append(opts, imaging.PNGCompressionLevel(pngCompression(l.config.PNGCompression)))
	}

	if err := imaging.Save(img, path, opts...); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	l.logger.Debug("encoded image",
		zap.String("path", path),
		zap.Stringer("format", format),
	)
	return nil
}

// GetImageInfo returns basic information about a decoded image
func (l *Loader) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	return ImageInfo{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
}

func (l *Loader) isFormatSupported(format string) bool {
	for _, supported := range l.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}
