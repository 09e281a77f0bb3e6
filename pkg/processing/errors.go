package processing

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is the kind of failures reading an input image
	ErrDecode = errors.New("decode error")
	// ErrEncode is the kind of failures writing an output image
	ErrEncode = errors.New("encode error")
	// ErrTransform is the kind of unexpected faults during an operation
	ErrTransform = errors.New("transform error")
)

// OpError is the failure result of a single crop or scale operation.
//
// Kind is one of ErrDecode, ErrEncode, ErrTransform, params.ErrMalformedRegion,
// params.ErrMalformedScale or cropper.ErrOutOfBounds. errors.Is matches both
// Kind and the wrapped cause.
type OpError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
