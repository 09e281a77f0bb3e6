package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/image-batcher/internal/utils"
	"github.com/menta2k/image-batcher/pkg/batch"
	"github.com/menta2k/image-batcher/pkg/imageio"
	"github.com/menta2k/image-batcher/pkg/types"
)

// DefaultROISlots is the number of region slots in the default layout
const DefaultROISlots = 5

// Config holds the application configuration
type Config struct {
	Output  OutputConfig  `json:"output" yaml:"output"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Job     JobConfig     `json:"job" yaml:"job"`
}

// OutputConfig holds encoder settings for written images
type OutputConfig struct {
	JPEGQuality    int    `json:"jpeg_quality" yaml:"jpeg_quality"`
	PNGCompression string `json:"png_compression" yaml:"png_compression"`
	// MaxPixels caps width*height of decoded inputs and scaled outputs
	MaxPixels int64 `json:"max_pixels" yaml:"max_pixels"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// JobConfig holds the batch inputs. ROIs are region texts in the
// "x,y,width,height" form; empty entries are disabled slots.
type JobConfig struct {
	InputDir string   `json:"input_dir" yaml:"input_dir"`
	ROIs     []string `json:"rois" yaml:"rois"`
	Scale    string   `json:"scale" yaml:"scale"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			JPEGQuality:    95,
			PNGCompression: "default",
			MaxPixels:      imageio.DefaultMaxPixels,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: false,
		},
		Job: JobConfig{
			ROIs: make([]string, DefaultROISlots),
		},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file. Fields missing
// from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		err = json.Unmarshal(data, config)
	default:
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid. It does not check the job
// inputs; rejecting those is the orchestrator's job.
func (c *Config) Validate() error {
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpeg_quality must be between 1 and 100")
	}

	if !slices.Contains(imageio.PNGCompressionNames, strings.ToLower(c.Output.PNGCompression)) {
		return fmt.Errorf("output.png_compression must be one of %s", strings.Join(imageio.PNGCompressionNames, ", "))
	}

	if c.Output.MaxPixels < 1 {
		return fmt.Errorf("output.max_pixels must be positive")
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// Codec returns the encoder settings for imageio
func (c *Config) Codec() imageio.Config {
	codec := imageio.DefaultConfig()
	codec.JPEGQuality = c.Output.JPEGQuality
	codec.PNGCompression = c.Output.PNGCompression
	codec.MaxPixels = c.Output.MaxPixels
	return codec
}

// Targets returns the job's output targets in the default roiN_result /
// resize_result layout
func (c *Config) Targets() []types.Target {
	return batch.DefaultTargets(c.Job.ROIs, c.Job.Scale)
}

// JobConfig returns the plain job value the orchestrator consumes
func (c *Config) JobConfig() types.JobConfig {
	return types.JobConfig{
		InputDir: c.Job.InputDir,
		Targets:  c.Targets(),
	}
}

// NewLogger builds a zap logger from the logging section
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}

	var zc zap.Config
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "image-batcher", "config.yaml")
}

// Exists reports whether a configuration file is present at path
func Exists(path string) bool {
	return utils.FileExists(path)
}
