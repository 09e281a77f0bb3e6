package batch

import (
	"fmt"

	"github.com/menta2k/image-batcher/internal/utils"
	"github.com/menta2k/image-batcher/pkg/params"
	"github.com/menta2k/image-batcher/pkg/types"
)

// ScaleSubdir is the output directory name of the default scale target
const ScaleSubdir = "resize_result"

// DefaultTargets builds the classic layout: one crop target per region text,
// writing to roiN_result, followed by a scale target writing to resize_result
func DefaultTargets(regions []string, scale string) []types.Target {
	targets := make([]types.Target, 0, len(regions)+1)
	for i, text := range regions {
		targets = append(targets, types.Target{
			ID:     fmt.Sprintf("roi%d", i+1),
			Kind:   types.CropTarget,
			Source: text,
			Subdir: fmt.Sprintf("roi%d_result", i+1),
		})
	}
	targets = append(targets, types.Target{
		ID:     "resize",
		Kind:   types.ScaleTarget,
		Source: scale,
		Subdir: ScaleSubdir,
	})
	return targets
}

// Enabled reports whether the target's text currently allows it to run
func Enabled(target types.Target) bool {
	switch target.Kind {
	case types.CropTarget:
		return params.CropEnabled(target.Source)
	case types.ScaleTarget:
		return params.ScaleEnabled(target.Source)
	default:
		return false
	}
}

// activate returns the enabled targets, crop targets in declaration order
// followed by the scale target
func activate(targets []types.Target) (crops []types.Target, scale *types.Target, err error) {
	seenScale := false
	for i := range targets {
		t := targets[i]
		if !utils.ValidSubdirName(t.Subdir) {
			return nil, nil, fmt.Errorf("%w: target %q: invalid subdirectory %q", ErrInvalidTargets, t.ID, t.Subdir)
		}

		switch t.Kind {
		case types.CropTarget:
			if Enabled(t) {
				crops = append(crops, t)
			}
		case types.ScaleTarget:
			if seenScale {
				return nil, nil, fmt.Errorf("%w: more than one scale target", ErrInvalidTargets)
			}
			seenScale = true
			if Enabled(t) {
				scale = &t
			}
		default:
			return nil, nil, fmt.Errorf("%w: target %q: unknown kind %s", ErrInvalidTargets, t.ID, t.Kind)
		}
	}
	return crops, scale, nil
}
