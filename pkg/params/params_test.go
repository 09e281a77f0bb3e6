package params

import (
	"errors"
	"testing"

	"github.com/menta2k/image-batcher/pkg/types"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		input    string
		expected types.Region
	}{
		{"100,100,200,200", types.Region{X: 100, Y: 100, Width: 200, Height: 200}},
		{"-10,-10,50,50", types.Region{X: -10, Y: -10, Width: 50, Height: 50}},
		{" 1, 2 ,3,4 ", types.Region{X: 1, Y: 2, Width: 3, Height: 4}},
		{"0,0,0,0", types.Region{}},
		{"+5,0,-3,7", types.Region{X: 5, Y: 0, Width: -3, Height: 7}},
	}

	for _, test := range tests {
		result, err := ParseRegion(test.input)
		if err != nil {
			t.Errorf("ParseRegion(%q) failed: %v", test.input, err)
			continue
		}
		if result != test.expected {
			t.Errorf("ParseRegion(%q) = %+v, expected %+v", test.input, result, test.expected)
		}
	}
}

func TestParseRegionMalformed(t *testing.T) {
	inputs := []string{
		"",
		"1,2,3",
		"1,2,3,4,5",
		"a,b,c,d",
		"1,2,3,x",
		"1.5,2,3,4",
		"1,,3,4",
		"1;2;3;4",
		"99999999999999999999,0,1,1",
	}

	for _, input := range inputs {
		_, err := ParseRegion(input)
		if !errors.Is(err, ErrMalformedRegion) {
			t.Errorf("ParseRegion(%q): expected ErrMalformedRegion, got %v", input, err)
		}
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"0.5", 0.5},
		{"2", 2},
		{" 1.25 ", 1.25},
		{"0", 0},
		{"-1.5", -1.5},
		{"1e-1", 0.1},
	}

	for _, test := range tests {
		result, err := ParseScale(test.input)
		if err != nil {
			t.Errorf("ParseScale(%q) failed: %v", test.input, err)
			continue
		}
		if result != test.expected {
			t.Errorf("ParseScale(%q) = %f, expected %f", test.input, result, test.expected)
		}
	}
}

func TestParseScaleMalformed(t *testing.T) {
	for _, input := range []string{"", "abc", "1,5", "NaN", "Inf", "-Inf", "0.5x"} {
		if _, err := ParseScale(input); !errors.Is(err, ErrMalformedScale) {
			t.Errorf("ParseScale(%q): expected ErrMalformedScale, got %v", input, err)
		}
	}
}

func TestCropEnabled(t *testing.T) {
	tests := []struct {
		input   string
		enabled bool
	}{
		{"0,0,10,10", true},
		{"-10,-10,50,50", true},
		{"0,0,0,10", false},
		{"0,0,10,-1", false},
		{"1,2,3", false},
		{"", false},
	}

	for _, test := range tests {
		if got := CropEnabled(test.input); got != test.enabled {
			t.Errorf("CropEnabled(%q) = %v, expected %v", test.input, got, test.enabled)
		}
	}
}

func TestScaleEnabled(t *testing.T) {
	tests := []struct {
		input   string
		enabled bool
	}{
		{"0.5", true},
		{"3", true},
		{"0", false},
		{"-1.5", false},
		{"abc", false},
		{"", false},
	}

	for _, test := range tests {
		if got := ScaleEnabled(test.input); got != test.enabled {
			t.Errorf("ScaleEnabled(%q) = %v, expected %v", test.input, got, test.enabled)
		}
	}
}
