// Package params turns the raw text a host collects into validated region and
// scale parameters. Nothing here touches the filesystem.
package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/menta2k/image-batcher/pkg/types"
)

var (
	// ErrMalformedRegion is returned when region text is not four comma-separated integers
	ErrMalformedRegion = errors.New("malformed region")
	// ErrMalformedScale is returned when scale text is not a finite number
	ErrMalformedScale = errors.New("malformed scale")
)

// ParseRegion parses "x,y,width,height". Each field is trimmed of surrounding
// whitespace before conversion. No sign or range checks are applied.
func ParseRegion(text string) (types.Region, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return types.Region{}, fmt.Errorf("%w: %q: want 4 fields, got %d", ErrMalformedRegion, text, len(parts))
	}

	var vals [4]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return types.Region{}, fmt.Errorf("%w: %q: field %d: %v", ErrMalformedRegion, text, i+1, err)
		}
		vals[i] = v
	}

	return types.Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// ParseScale parses a scale factor. Zero and negative values parse fine;
// deciding whether they are usable is left to the caller.
func ParseScale(text string) (float64, error) {
	s, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedScale, text, err)
	}
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, fmt.Errorf("%w: %q: not finite", ErrMalformedScale, text)
	}
	return s, nil
}

// CropEnabled reports whether region text can drive a crop output
func CropEnabled(text string) bool {
	r, err := ParseRegion(text)
	return err == nil && r.Width > 0 && r.Height > 0
}

// ScaleEnabled reports whether scale text can drive a scale output
func ScaleEnabled(text string) bool {
	s, err := ParseScale(text)
	return err == nil && s > 0
}
