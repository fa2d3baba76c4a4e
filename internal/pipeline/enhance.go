package pipeline

import (
	"context"
	"fmt"
	"math"
)

// Enhance runs src through model and returns a new Raster. The source is
// never modified. Model failures, panics and malformed output all surface
// as *InferenceError.
func Enhance(ctx context.Context, src *Raster, model Model) (*Raster, error) {
	if src.Empty() {
		return nil, ErrEmptyRaster
	}
	if model == nil {
		return nil, &InferenceError{Err: fmt.Errorf("no model")}
	}

	out, err := invoke(ctx, model, ToTensor(src))
	if err != nil {
		return nil, err
	}
	if err := out.ValidateImageBatch(); err != nil {
		return nil, &InferenceError{Err: err}
	}

	return FromTensor(out), nil
}

func invoke(ctx context.Context, model Model, in Tensor) (out Tensor, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InferenceError{Err: fmt.Errorf("model panic: %v", r)}
		}
	}()

	out, err = model.Infer(ctx, in)
	if err != nil {
		return Tensor{}, &InferenceError{Err: err}
	}
	return out, nil
}

// ToTensor scales samples to [0,1] and lays them out as [1, 3, H, W].
func ToTensor(r *Raster) Tensor {
	w, h := r.width, r.height
	plane := w * h
	data := make([]float32, Channels*plane)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			i := p * Channels
			for c := 0; c < Channels; c++ {
				data[c*plane+p] = float32(r.pix[i+c]) / 255.0
			}
		}
	}

	return Tensor{Shape: []int{1, Channels, h, w}, Data: data}
}

// FromTensor converts a validated [1, 3, H, W] tensor back to a Raster.
// Values are clamped to [0,1] and rounded to the nearest 8-bit level.
func FromTensor(t Tensor) *Raster {
	h, w := t.Shape[2], t.Shape[3]
	plane := w * h
	pix := make([]uint8, plane*Channels)

	for p := 0; p < plane; p++ {
		i := p * Channels
		for c := 0; c < Channels; c++ {
			pix[i+c] = quantize(t.Data[c*plane+p])
		}
	}

	return &Raster{width: w, height: h, pix: pix}
}

func quantize(v float32) uint8 {
	f := float64(v)
	if math.IsNaN(f) || f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return uint8(math.Round(f * 255))
}
