package conversion

import (
	"fmt"
	"runtime"
	"unsafe"

	"depixel/internal/pipeline"

	"gocv.io/x/gocv"
)

// TensorToBlob copies t into a float32 N-dimensional Mat suitable for
// Net.SetInput. The caller owns the returned Mat.
func TensorToBlob(t pipeline.Tensor) (gocv.Mat, error) {
	if err := validateTensor(t); err != nil {
		return gocv.NewMat(), err
	}

	raw := unsafe.Slice((*byte)(unsafe.Pointer(&t.Data[0])), len(t.Data)*4)
	view, err := gocv.NewMatWithSizesFromBytes(t.Shape, gocv.MatTypeCV32F, raw)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("blob creation failed: %w", err)
	}
	defer view.Close()

	// view borrows Go memory; the clone is owned by OpenCV.
	blob := view.Clone()
	runtime.KeepAlive(t.Data)

	if blob.Empty() {
		blob.Close()
		return gocv.NewMat(), fmt.Errorf("blob creation failed for shape %v", t.Shape)
	}
	return blob, nil
}

// BlobToTensor copies a float32 N-dimensional Mat into a Tensor.
func BlobToTensor(m gocv.Mat) (pipeline.Tensor, error) {
	if m.Empty() {
		return pipeline.Tensor{}, fmt.Errorf("blob is empty")
	}
	if m.Type() != gocv.MatTypeCV32F {
		return pipeline.Tensor{}, fmt.Errorf("blob type %v, want CV_32F", m.Type())
	}

	shape := m.Size()
	data, err := m.DataPtrFloat32()
	if err != nil {
		return pipeline.Tensor{}, fmt.Errorf("blob data access failed: %w", err)
	}

	t := pipeline.Tensor{
		Shape: append([]int(nil), shape...),
		Data:  append([]float32(nil), data...),
	}
	if t.Len() != len(t.Data) {
		return pipeline.Tensor{}, fmt.Errorf("blob shape %v does not match %d values", shape, len(t.Data))
	}
	return t, nil
}

func validateTensor(t pipeline.Tensor) error {
	if len(t.Shape) == 0 {
		return fmt.Errorf("tensor has no shape")
	}
	for _, d := range t.Shape {
		if d <= 0 {
			return fmt.Errorf("tensor shape %v has non-positive dimension", t.Shape)
		}
	}
	if len(t.Data) != t.Len() {
		return fmt.Errorf("tensor holds %d values, shape %v needs %d", len(t.Data), t.Shape, t.Len())
	}
	return nil
}
