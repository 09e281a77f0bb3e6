// Package imagebatcher batch-processes a directory of raster images, writing
// region-of-interest crops and a uniformly scaled copy of every image into
// per-target subdirectories.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		imagebatcher "github.com/menta2k/image-batcher"
//	)
//
//	func main() {
//		b := imagebatcher.New(nil)
//
//		// Two crops into roi1_result and roi2_result, half-size copies into resize_result
//		report, err := b.ProcessDirectory(context.Background(), "./photos",
//			[]string{"100,100,200,200", "0,0,64,64"}, "0.5")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("succeeded %d / total %d\n", report.Succeeded, report.Total)
//	}
//
// The package consists of these components:
//
// 1. Params (pkg/params): parses region and scale text
// 2. Cropper (pkg/cropper): clamps regions against image bounds and extracts them
// 3. Processing (pkg/processing): one decode, transform and encode per call
// 4. Batch (pkg/batch): enumerates images, creates output directories and tallies results
//
// A file counts as successful only if every enabled target succeeded for it.
// Failing operations never stop the batch.
package imagebatcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/menta2k/image-batcher/pkg/batch"
	"github.com/menta2k/image-batcher/pkg/imageio"
	"github.com/menta2k/image-batcher/pkg/processing"
	"github.com/menta2k/image-batcher/pkg/types"
)

// Version of the image batcher library
const Version = "1.0.0"

// Batcher provides a high-level interface for batch processing
type Batcher struct {
	loader       *imageio.Loader
	executor     *processing.Executor
	orchestrator *batch.Orchestrator
}

// New creates a new Batcher with default codec settings. A nil logger
// disables logging.
func New(logger *zap.Logger) *Batcher {
	return NewWithConfig(imageio.DefaultConfig(), nil, logger)
}

// NewWithConfig creates a new Batcher with custom codec settings and a
// notifier for progress reporting
func NewWithConfig(codec imageio.Config, notifier batch.Notifier, logger *zap.Logger) *Batcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	loader := imageio.NewWithConfig(codec, logger.Named("imageio"))
	executor := processing.NewExecutor(loader, logger.Named("processing"))

	return &Batcher{
		loader:       loader,
		executor:     executor,
		orchestrator: batch.New(executor, notifier, logger.Named("batch")),
	}
}

// Run processes a directory with an explicit target list
func (b *Batcher) Run(ctx context.Context, job types.JobConfig) (*types.Report, error) {
	return b.orchestrator.Run(ctx, job)
}

// ProcessDirectory processes inputDir with one crop target per region text
// and one scale target, using the roiN_result / resize_result layout. Empty
// or invalid texts disable their target.
func (b *Batcher) ProcessDirectory(ctx context.Context, inputDir string, regions []string, scale string) (*types.Report, error) {
	return b.Run(ctx, types.JobConfig{
		InputDir: inputDir,
		Targets:  batch.DefaultTargets(regions, scale),
	})
}

// CropImage crops a single image into outputDir
func (b *Batcher) CropImage(inputPath, outputDir, region string) error {
	return b.executor.ExecuteCrop(inputPath, outputDir, region)
}

// ScaleImage scales a single image into outputDir
func (b *Batcher) ScaleImage(inputPath, outputDir, scale string) error {
	return b.executor.ExecuteScale(inputPath, outputDir, scale)
}

// Inspect reads the header of the image at path without decoding pixels.
// It fails for containers the batcher would not accept and for images above
// the configured pixel cap.
func (b *Batcher) Inspect(path string) (imageio.ImageInfo, error) {
	return b.loader.Inspect(path)
}

// State returns the state of the underlying orchestrator
func (b *Batcher) State() batch.State {
	return b.orchestrator.State()
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
