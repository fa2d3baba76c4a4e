package models

import (
	"sync"

	"depixel/internal/pipeline"
)

// SourceCache holds the decoded source image. Upload fills it, and the
// enhancement task and the screens read from it, so every consumer sees
// the same pixels the preview showed.
type SourceCache struct {
	mu     sync.Mutex
	path   string
	raster *pipeline.Raster
}

func NewSourceCache() *SourceCache {
	return &SourceCache{}
}

func (c *SourceCache) Set(path string, r *pipeline.Raster) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path, c.raster = path, r
}

// Peek returns the cached raster for path without touching the disk.
func (c *SourceCache) Peek(path string) (*pipeline.Raster, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.raster == nil || c.path != path {
		return nil, false
	}
	return c.raster, true
}

// Get returns the cached raster for path, decoding the file on a miss.
func (c *SourceCache) Get(path string) (*pipeline.Raster, error) {
	if r, ok := c.Peek(path); ok {
		return r, nil
	}

	r, err := pipeline.Decode(path)
	if err != nil {
		return nil, err
	}
	c.Set(path, r)
	return r, nil
}
