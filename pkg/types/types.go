package types

import "fmt"

// Region is a requested rectangle in pixel coordinates. It is not bounds-checked.
type Region struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// String renders the region in the same x,y,width,height form it is parsed from
func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// TargetKind distinguishes crop outputs from the scale output
type TargetKind int

const (
	// CropTarget extracts a region of interest
	CropTarget TargetKind = iota
	// ScaleTarget uniformly scales the whole image
	ScaleTarget
)

func (k TargetKind) String() string {
	switch k {
	case CropTarget:
		return "crop"
	case ScaleTarget:
		return "scale"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Target is one configured output operation.
//
// Source holds the raw text the operation is configured with: "x,y,width,height"
// for crop targets and a real number for the scale target. Subdir is the name
// of the output directory created under the input directory.
type Target struct {
	ID     string     `json:"id" yaml:"id"`
	Kind   TargetKind `json:"kind" yaml:"kind"`
	Source string     `json:"source" yaml:"source"`
	Subdir string     `json:"subdir" yaml:"subdir"`
}

// JobConfig is everything a batch run needs from its host
type JobConfig struct {
	InputDir string   `json:"input_dir" yaml:"input_dir"`
	Targets  []Target `json:"targets" yaml:"targets"`
}

// FileFailure records why a single input file was counted as failed
type FileFailure struct {
	File   string  `json:"file"`
	Errors []error `json:"-"`
}

// Report is the outcome of a completed batch run
type Report struct {
	JobID      string        `json:"job_id"`
	InputDir   string        `json:"input_dir"`
	OutputDirs []string      `json:"output_dirs"`
	Total      int           `json:"total"`
	Processed  int           `json:"processed"`
	Succeeded  int           `json:"succeeded"`
	Failures   []FileFailure `json:"failures,omitempty"`
}

// Failed returns the number of files with at least one failed operation
func (r *Report) Failed() int {
	return r.Processed - r.Succeeded
}
