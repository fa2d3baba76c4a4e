package inference

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"depixel/internal/logger"
	"depixel/internal/pipeline"
)

// Model is the tensor-to-tensor contract the pipeline invokes.
type Model = pipeline.Model

// Loader builds a Model from its weights.
type Loader func(ctx context.Context) (Model, error)

// Cache loads the model on first use and shares it for every later call.
// A failed load is not remembered, so the next call retries.
type Cache struct {
	mu     sync.Mutex
	load   Loader
	model  Model
	logger logger.Logger
}

func NewCache(load Loader, log logger.Logger) *Cache {
	return &Cache{load: load, logger: log}
}

// Get returns the shared model, loading it if needed. Concurrent callers
// wait for a single load.
func (c *Cache) Get(ctx context.Context) (Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model != nil {
		return c.model, nil
	}
	if c.load == nil {
		return nil, fmt.Errorf("no model loader configured")
	}

	start := time.Now()
	m, err := c.load(ctx)
	if err != nil {
		c.logger.Error("ModelCache", err, map[string]interface{}{
			"duration": time.Since(start).String(),
		})
		return nil, fmt.Errorf("load model: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("load model: loader returned no model")
	}

	c.model = m
	c.logger.Info("ModelCache", "model ready", map[string]interface{}{
		"duration": time.Since(start).String(),
	})
	return m, nil
}

// Loaded reports whether a model is cached.
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model != nil
}

// Close releases the cached model if it holds resources.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.model
	c.model = nil
	if closer, ok := m.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
