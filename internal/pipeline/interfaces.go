package pipeline

import "context"

// Model maps an input tensor to an output tensor. Implementations are
// inference-only: they hold no training state and never update weights.
type Model interface {
	Infer(ctx context.Context, input Tensor) (Tensor, error)
}

// ModelFunc adapts a plain function to Model.
type ModelFunc func(ctx context.Context, input Tensor) (Tensor, error)

func (f ModelFunc) Infer(ctx context.Context, input Tensor) (Tensor, error) {
	return f(ctx, input)
}

// Identity returns its input unchanged. Stand-in for a model with upscale factor 1.
var Identity = ModelFunc(func(_ context.Context, input Tensor) (Tensor, error) {
	return input, nil
})
