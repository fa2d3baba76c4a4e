package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrSelectionCancelled marks a file dialog closed without a choice.
	// Callers treat it as a no-op.
	ErrSelectionCancelled = errors.New("selection cancelled")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrEmptyRaster        = errors.New("raster is empty")
)

// DecodeError reports a source that could not be decoded as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode image: %v", e.Err)
	}
	return fmt.Sprintf("decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InferenceError reports a failed model invocation, including malformed
// output tensors.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string { return fmt.Sprintf("inference failed: %v", e.Err) }

func (e *InferenceError) Unwrap() error { return e.Err }
