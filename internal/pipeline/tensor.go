package pipeline

import "fmt"

// Tensor is a dense float32 array in row-major order. The pipeline exchanges
// tensors shaped [batch, channel, height, width] with the model.
type Tensor struct {
	Shape []int
	Data  []float32
}

// Len is the element count implied by Shape.
func (t Tensor) Len() int {
	if len(t.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// ValidateImageBatch checks for a single-image CHW batch with 3 channels.
func (t Tensor) ValidateImageBatch() error {
	if len(t.Shape) != 4 {
		return fmt.Errorf("tensor rank %d, want 4 (NCHW)", len(t.Shape))
	}
	if t.Shape[0] != 1 {
		return fmt.Errorf("batch size %d, want 1", t.Shape[0])
	}
	if t.Shape[1] != Channels {
		return fmt.Errorf("channel count %d, want %d", t.Shape[1], Channels)
	}
	if t.Shape[2] <= 0 || t.Shape[3] <= 0 {
		return fmt.Errorf("invalid spatial size %dx%d", t.Shape[3], t.Shape[2])
	}
	if len(t.Data) != t.Len() {
		return fmt.Errorf("tensor holds %d values, shape %v needs %d", len(t.Data), t.Shape, t.Len())
	}
	return nil
}
