package models

import (
	"sync"
	"time"

	"depixel/internal/pipeline"
)

// Snapshot is a consistent copy of the session at one instant.
type Snapshot struct {
	SourcePath        string
	Result            *pipeline.Raster
	LastProcessedPath string
	ProcessTime       time.Duration
}

// HasSource reports whether an image has been uploaded.
func (s Snapshot) HasSource() bool { return s.SourcePath != "" }

// HasResult reports whether the stored result belongs to the current source.
func (s Snapshot) HasResult() bool {
	return s.Result != nil && s.LastProcessedPath == s.SourcePath
}

// Session holds the state shared between screens: the selected source image
// and the enhanced result produced from it. Rasters are immutable, so readers
// may keep returned values without further locking.
type Session struct {
	mu                sync.RWMutex
	sourcePath        string
	result            *pipeline.Raster
	lastProcessedPath string
	processTime       time.Duration
}

func NewSession() *Session {
	return &Session{}
}

// SetSource records a newly uploaded image. Choosing a different path drops
// any result produced for the previous one.
func (s *Session) SetSource(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == s.sourcePath {
		return
	}
	s.sourcePath = path
	s.result = nil
	s.lastProcessedPath = ""
	s.processTime = 0
}

// SetResult stores the enhanced image for path. The write is dropped and
// false returned when path is no longer the current source.
func (s *Session) SetResult(path string, result *pipeline.Raster, took time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == "" || path != s.sourcePath || result == nil {
		return false
	}
	s.result = result
	s.lastProcessedPath = path
	s.processTime = took
	return true
}

func (s *Session) SourcePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourcePath
}

// Result returns the enhanced image for the current source, or nil.
func (s *Session) Result() *pipeline.Raster {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastProcessedPath != s.sourcePath {
		return nil
	}
	return s.result
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		SourcePath:        s.sourcePath,
		Result:            s.result,
		LastProcessedPath: s.lastProcessedPath,
		ProcessTime:       s.processTime,
	}
}
