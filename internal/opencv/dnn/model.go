package dnn

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"depixel/internal/config"
	"depixel/internal/logger"
	"depixel/internal/opencv/conversion"
	"depixel/internal/pipeline"

	"gocv.io/x/gocv"
)

const probeSize = 8

// WeightLoadMismatch reports weights that loaded but do not behave like the
// configured super-resolution network. It is never fatal.
type WeightLoadMismatch struct {
	Path             string
	ExpectedChannels int
	ActualChannels   int
	ExpectedScale    int
	ActualScale      int
}

func (e *WeightLoadMismatch) Error() string {
	return fmt.Sprintf("weights %s: expected %d channels at x%d, got %d channels at x%d",
		e.Path, e.ExpectedChannels, e.ExpectedScale, e.ActualChannels, e.ActualScale)
}

// Model runs a super-resolution network through the OpenCV DNN module.
// Weights are read-only after Load; Infer serialises access to the net's
// input and output buffers.
type Model struct {
	mu     sync.Mutex
	net    gocv.Net
	path   string
	scale  int
	logger logger.Logger
	closed bool
}

// Load reads the network at cfg.Path and runs a probe inference to check
// that its output matches cfg.Scale.
func Load(cfg config.ModelConfig, log logger.Logger) (*Model, error) {
	start := time.Now()

	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("model weights: %w", err)
	}

	net := gocv.ReadNet(cfg.Path, "")
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("failed to read network from %s", cfg.Path)
	}

	net.SetPreferableBackend(ParseBackend(cfg.Backend))
	net.SetPreferableTarget(ParseTarget(cfg.Target))

	m := &Model{
		net:    net,
		path:   cfg.Path,
		scale:  cfg.Scale,
		logger: log,
	}

	if mismatch := m.probe(); mismatch != nil {
		log.Warning("DNNModel", "weights do not match network, continuing", map[string]interface{}{
			"path":              mismatch.Path,
			"expected_channels": mismatch.ExpectedChannels,
			"actual_channels":   mismatch.ActualChannels,
			"expected_scale":    mismatch.ExpectedScale,
			"actual_scale":      mismatch.ActualScale,
		})
	}

	log.Info("DNNModel", "model loaded", map[string]interface{}{
		"path":     cfg.Path,
		"backend":  cfg.Backend,
		"target":   cfg.Target,
		"scale":    cfg.Scale,
		"duration": time.Since(start).String(),
	})

	return m, nil
}

// probe runs a small constant input through the net. A failed probe is
// reported as a mismatch with zero actual values.
func (m *Model) probe() *WeightLoadMismatch {
	data := make([]float32, pipeline.Channels*probeSize*probeSize)
	for i := range data {
		data[i] = 0.5
	}
	in := pipeline.Tensor{Shape: []int{1, pipeline.Channels, probeSize, probeSize}, Data: data}

	mismatch := &WeightLoadMismatch{
		Path:             m.path,
		ExpectedChannels: pipeline.Channels,
		ExpectedScale:    m.scale,
	}

	out, err := m.Infer(context.Background(), in)
	if err != nil {
		m.logger.Debug("DNNModel", "probe inference failed", map[string]interface{}{
			"error": err.Error(),
		})
		return mismatch
	}
	if len(out.Shape) != 4 {
		return mismatch
	}

	mismatch.ActualChannels = out.Shape[1]
	mismatch.ActualScale = out.Shape[2] / probeSize
	if mismatch.ActualChannels == mismatch.ExpectedChannels &&
		out.Shape[2] == probeSize*m.scale && out.Shape[3] == probeSize*m.scale {
		return nil
	}
	return mismatch
}

// Infer runs one forward pass. The context is checked before the pass starts;
// a running pass cannot be interrupted.
func (m *Model) Infer(ctx context.Context, in pipeline.Tensor) (pipeline.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Tensor{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return pipeline.Tensor{}, fmt.Errorf("model %s is closed", m.path)
	}

	blob, err := conversion.TensorToBlob(in)
	if err != nil {
		return pipeline.Tensor{}, err
	}
	defer blob.Close()

	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	defer out.Close()

	if out.Empty() {
		return pipeline.Tensor{}, fmt.Errorf("forward pass produced no output")
	}
	return conversion.BlobToTensor(out)
}

func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	return m.net.Close()
}

// ParseBackend maps a config backend name to an OpenCV DNN backend.
func ParseBackend(name string) gocv.NetBackendType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "opencv":
		return gocv.NetBackendOpenCV
	case "cuda":
		return gocv.NetBackendCUDA
	default:
		return gocv.NetBackendDefault
	}
}

// ParseTarget maps a config target name to an OpenCV DNN target.
func ParseTarget(name string) gocv.NetTargetType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "opencl":
		return gocv.NetTargetFP32
	case "opencl-fp16":
		return gocv.NetTargetFP16
	case "cuda":
		return gocv.NetTargetCUDA
	default:
		return gocv.NetTargetCPU
	}
}
