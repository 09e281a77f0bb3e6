package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	imagebatcher "github.com/menta2k/image-batcher"
	"github.com/menta2k/image-batcher/internal/config"
	"github.com/menta2k/image-batcher/pkg/batch"
)

// roiFlags collects repeated -roi values
type roiFlags []string

func (r *roiFlags) String() string {
	return strings.Join(*r, " ")
}

func (r *roiFlags) Set(v string) error {
	*r = append(*r, v)
	return nil
}

// consoleNotifier prints progress the way a progress bar would be fed
type consoleNotifier struct {
	out io.Writer
	err io.Writer
}

func (c consoleNotifier) OnProgress(processed, total int) {
	fmt.Fprintf(c.err, "[%d/%d]\n", processed, total)
}

func (c consoleNotifier) OnCompleted(succeeded, total int) {
	fmt.Fprintf(c.out, "succeeded %d / total %d\n", succeeded, total)
}

func (c consoleNotifier) OnRejected(reason error) {
	fmt.Fprintf(c.err, "rejected: %s\n", rejectionMessage(reason))
}

func rejectionMessage(reason error) string {
	switch {
	case errors.Is(reason, batch.ErrInvalidInputDirectory):
		return "please choose a valid image directory"
	case errors.Is(reason, batch.ErrNoActiveOperations):
		return "no valid ROI or scale parameters were set"
	case errors.Is(reason, batch.ErrNoImagesFound):
		return "no supported images (jpg, jpeg, png, bmp) found in the directory"
	default:
		return reason.Error()
	}
}

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run resolves the configuration from args and the config file, runs one
// batch and returns the process exit code: 0 when the batch ran to the end
// (per-file failures included), 1 on a rejection or an unusable
// configuration, 2 on bad flags and 130 when ctx was cancelled mid-batch.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("image-batcher", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dir, scale, configPath, logLevel string
	var quality int
	var maxPixels int64
	var dev bool
	var rois roiFlags

	fs.StringVar(&dir, "dir", "", "input image directory")
	fs.Var(&rois, "roi", "region as x,y,width,height (repeatable, one output directory per flag)")
	fs.StringVar(&scale, "scale", "", "uniform scale factor greater than 0 (e.g. 0.5 halves each side)")
	fs.StringVar(&configPath, "config", "", "YAML or JSON config file (default: "+config.GetConfigPath()+" if present)")
	fs.IntVar(&quality, "quality", 0, "JPEG output quality 1-100 (overrides config)")
	fs.Int64Var(&maxPixels, "max-pixels", 0, "largest width*height accepted or produced (overrides config)")
	fs.StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	fs.BoolVar(&dev, "dev", false, "human-readable development logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg := config.Default()
	if configPath == "" && config.Exists(config.GetConfigPath()) {
		configPath = config.GetConfigPath()
	}
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		cfg = loaded
	}

	if dir != "" {
		cfg.Job.InputDir = dir
	}
	if len(rois) > 0 {
		cfg.Job.ROIs = rois
	}
	if scale != "" {
		cfg.Job.Scale = scale
	}
	if quality != 0 {
		cfg.Output.JPEGQuality = quality
	}
	if maxPixels != 0 {
		cfg.Output.MaxPixels = maxPixels
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if dev {
		cfg.Logging.Development = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitFailure
	}
	if cfg.Job.InputDir == "" {
		fmt.Fprintf(stderr, "usage: %s -dir images/ [-roi x,y,w,h ...] [-scale 0.5] [-config job.yaml]\n", fs.Name())
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	defer logger.Sync()

	notifier := consoleNotifier{out: stdout, err: stderr}
	batcher := imagebatcher.NewWithConfig(cfg.Codec(), notifier, logger)

	report, err := batcher.Run(ctx, cfg.JobConfig())
	if err != nil && report == nil {
		return exitFailure
	}

	for _, f := range report.Failures {
		for _, e := range f.Errors {
			logger.Info("file failed", zap.String("file", f.File), zap.Error(e))
		}
	}
	if err != nil {
		logger.Warn("batch interrupted", zap.Error(err))
		return exitInterrupted
	}
	return exitOK
}
