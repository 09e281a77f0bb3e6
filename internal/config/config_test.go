package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/image-batcher/pkg/types"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if len(cfg.Job.ROIs) != DefaultROISlots {
		t.Errorf("Expected %d ROI slots, got %d", DefaultROISlots, len(cfg.Job.ROIs))
	}

	targets := cfg.Targets()
	if len(targets) != DefaultROISlots+1 {
		t.Fatalf("Expected %d targets, got %d", DefaultROISlots+1, len(targets))
	}
	if targets[len(targets)-1].Kind != types.ScaleTarget {
		t.Error("Scale target should be last")
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	path := writeConfig(t, "job.yaml", `
output:
  jpeg_quality: 80
  max_pixels: 1000000
logging:
  level: debug
job:
  input_dir: /data/scans
  rois:
    - "100,100,200,200"
    - ""
    - "0,0,50,50"
  scale: "0.5"
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Loaded config should be valid: %v", err)
	}

	if cfg.Output.JPEGQuality != 80 {
		t.Errorf("Expected jpeg_quality 80, got %d", cfg.Output.JPEGQuality)
	}
	if cfg.Output.PNGCompression != "default" {
		t.Errorf("Missing png_compression should keep default, got %q", cfg.Output.PNGCompression)
	}
	if got := cfg.Codec().MaxPixels; got != 1000000 {
		t.Errorf("Expected codec max pixels 1000000, got %d", got)
	}

	job := cfg.JobConfig()
	if job.InputDir != "/data/scans" {
		t.Errorf("Unexpected input dir %s", job.InputDir)
	}
	if len(job.Targets) != 4 {
		t.Fatalf("Expected 3 crop targets and 1 scale target, got %d", len(job.Targets))
	}
	if job.Targets[2].Subdir != "roi3_result" || job.Targets[2].Source != "0,0,50,50" {
		t.Errorf("Unexpected third target %+v", job.Targets[2])
	}
	if job.Targets[3].Source != "0.5" || job.Targets[3].Subdir != "resize_result" {
		t.Errorf("Unexpected scale target %+v", job.Targets[3])
	}
}

func TestLoadFromFileJSON(t *testing.T) {
	path := writeConfig(t, "job.json", `{"output":{"jpeg_quality":70,"png_compression":"best"},"job":{"input_dir":"in","scale":"2"}}`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Output.JPEGQuality != 70 || cfg.Output.PNGCompression != "best" {
		t.Errorf("Unexpected output config %+v", cfg.Output)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Missing logging section should keep default level, got %q", cfg.Logging.Level)
	}

	codec := cfg.Codec()
	if codec.JPEGQuality != 70 || codec.PNGCompression != "best" {
		t.Errorf("Unexpected codec config %+v", codec)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := writeConfig(t, "broken.yaml", "output: [unterminated")
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}

	path = writeConfig(t, "broken.json", "{")
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"quality too low", func(c *Config) { c.Output.JPEGQuality = 0 }},
		{"quality too high", func(c *Config) { c.Output.JPEGQuality = 101 }},
		{"unknown compression", func(c *Config) { c.Output.PNGCompression = "ultra" }},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }},
		{"zero max pixels", func(c *Config) { c.Output.MaxPixels = 0 }},
		{"negative max pixels", func(c *Config) { c.Output.MaxPixels = -1 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"

	logger, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("Debug level should be disabled at warn")
	}

	cfg.Logging.Level = "nope"
	if _, err := cfg.NewLogger(); err == nil {
		t.Error("Expected error for invalid level")
	}
}
