// Package batch drives the per-image executor over every image in a
// directory and every enabled output target.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/menta2k/image-batcher/internal/utils"
	"github.com/menta2k/image-batcher/pkg/types"
)

var (
	// ErrInvalidInputDirectory rejects runs whose input path is empty or not a directory
	ErrInvalidInputDirectory = errors.New("invalid input directory")
	// ErrNoActiveOperations rejects runs where no target is enabled
	ErrNoActiveOperations = errors.New("no active operations")
	// ErrNoImagesFound rejects runs over a directory without matching images
	ErrNoImagesFound = errors.New("no images found")
	// ErrInvalidTargets rejects target lists the orchestrator cannot lay out
	ErrInvalidTargets = errors.New("invalid targets")
)

// Executor performs single-image operations
type Executor interface {
	ExecuteCrop(inputPath, outputDir, regionText string) error
	ExecuteScale(inputPath, outputDir, scaleText string) error
}

// Orchestrator runs batches one at a time. It is not safe for concurrent use.
type Orchestrator struct {
	executor Executor
	notifier Notifier
	logger   *zap.Logger
	state    State
}

// New creates an orchestrator. A nil notifier discards notifications.
func New(executor Executor, notifier Notifier, logger *zap.Logger) *Orchestrator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		executor: executor,
		notifier: notifier,
		logger:   logger,
		state:    Idle,
	}
}

// State returns the current lifecycle state
func (o *Orchestrator) State() State {
	return o.state
}

// job is the transient state of one run
type job struct {
	id       string
	inputDir string
	crops    []types.Target
	scale    *types.Target
	dirs     []string
	files    []string
	report   *types.Report
	logger   *zap.Logger
}

// Run processes every image in cfg.InputDir with every enabled target.
//
// Pre-run rejections (ErrInvalidInputDirectory, ErrNoActiveOperations,
// ErrNoImagesFound, ErrInvalidTargets) are returned before anything is
// written. Once running, failing operations are tallied in the report and
// never stop the batch. ctx is only checked between files.
func (o *Orchestrator) Run(ctx context.Context, cfg types.JobConfig) (*types.Report, error) {
	if o.state == Completed {
		o.transition(Idle)
	}
	o.transition(Validating)

	j, err := o.validate(cfg)
	if err != nil {
		return nil, o.reject(err)
	}

	o.transition(Preparing)
	if err := o.prepare(j); err != nil {
		return nil, o.reject(err)
	}

	o.transition(Running)
	runErr := o.process(ctx, j)

	o.transition(Completed)
	o.notifier.OnCompleted(j.report.Succeeded, j.report.Total)
	j.logger.Info("batch finished",
		zap.Int("processed", j.report.Processed),
		zap.Int("succeeded", j.report.Succeeded),
		zap.Int("total", j.report.Total),
	)

	return j.report, runErr
}

func (o *Orchestrator) validate(cfg types.JobConfig) (*job, error) {
	if !utils.DirExists(cfg.InputDir) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInputDirectory, cfg.InputDir)
	}

	crops, scale, err := activate(cfg.Targets)
	if err != nil {
		return nil, err
	}
	if len(crops) == 0 && scale == nil {
		return nil, ErrNoActiveOperations
	}

	id := uuid.New().String()
	return &job{
		id:       id,
		inputDir: cfg.InputDir,
		crops:    crops,
		scale:    scale,
		report:   &types.Report{JobID: id, InputDir: cfg.InputDir},
		logger:   o.logger.With(zap.String("job_id", id)),
	}, nil
}

// prepare enumerates input files and creates output directories. The scale
// directory, if any, is always the last entry of j.dirs.
func (o *Orchestrator) prepare(j *job) error {
	files, err := utils.ListImageFiles(j.inputDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInputDirectory, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %q", ErrNoImagesFound, j.inputDir)
	}
	j.files = files

	for _, t := range j.crops {
		dir, err := o.makeOutputDir(j, t)
		if err != nil {
			return err
		}
		j.dirs = append(j.dirs, dir)
	}
	if j.scale != nil {
		dir, err := o.makeOutputDir(j, *j.scale)
		if err != nil {
			return err
		}
		j.dirs = append(j.dirs, dir)
	}

	j.report.OutputDirs = j.dirs
	j.report.Total = len(files)

	j.logger.Info("batch started",
		zap.String("input_dir", j.inputDir),
		zap.Int("files", len(files)),
		zap.Int("crop_targets", len(j.crops)),
		zap.Bool("scale_target", j.scale != nil),
	)
	return nil
}

func (o *Orchestrator) makeOutputDir(j *job, t types.Target) (string, error) {
	dir := filepath.Join(j.inputDir, t.Subdir)
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return dir, nil
}

func (o *Orchestrator) process(ctx context.Context, j *job) error {
	total := len(j.files)

	for _, name := range j.files {
		if err := ctx.Err(); err != nil {
			j.logger.Warn("batch cancelled",
				zap.Int("processed", j.report.Processed),
				zap.Int("total", total),
			)
			return err
		}

		inputPath := filepath.Join(j.inputDir, name)
		var failures []error

		for i, t := range j.crops {
			if err := o.executor.ExecuteCrop(inputPath, j.dirs[i], t.Source); err != nil {
				failures = append(failures, o.opFailed(j, name, t, err))
			}
		}
		if j.scale != nil {
			if err := o.executor.ExecuteScale(inputPath, j.dirs[len(j.dirs)-1], j.scale.Source); err != nil {
				failures = append(failures, o.opFailed(j, name, *j.scale, err))
			}
		}

		if len(failures) == 0 {
			j.report.Succeeded++
		} else {
			j.report.Failures = append(j.report.Failures, types.FileFailure{File: name, Errors: failures})
		}

		j.report.Processed++
		o.notifier.OnProgress(j.report.Processed, total)
	}

	return nil
}

func (o *Orchestrator) opFailed(j *job, file string, t types.Target, err error) error {
	j.logger.Warn("operation failed",
		zap.String("file", file),
		zap.String("target", t.ID),
		zap.Stringer("kind", t.Kind),
		zap.Error(err),
	)
	return fmt.Errorf("%s: %w", t.ID, err)
}

func (o *Orchestrator) reject(err error) error {
	o.logger.Warn("batch rejected", zap.Error(err))
	o.notifier.OnRejected(err)
	o.transition(Idle)
	return err
}

func (o *Orchestrator) transition(to State) {
	o.logger.Debug("state transition",
		zap.Stringer("from", o.state),
		zap.Stringer("to", to),
	)
	o.state = to
}
