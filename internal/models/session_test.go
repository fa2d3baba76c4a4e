package models

import (
	"sync"
	"testing"
	"time"

	"depixel/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raster(t *testing.T) *pipeline.Raster {
	t.Helper()
	r, err := pipeline.NewRaster(1, 1, []uint8{1, 2, 3})
	require.NoError(t, err)
	return r
}

func TestSessionStartsEmpty(t *testing.T) {
	s := NewSession()
	snap := s.Snapshot()
	assert.False(t, snap.HasSource())
	assert.False(t, snap.HasResult())
	assert.Nil(t, s.Result())
	assert.Empty(t, s.SourcePath())
}

func TestSetResultForCurrentSource(t *testing.T) {
	s := NewSession()
	s.SetSource("/img/a.png")
	r := raster(t)

	require.True(t, s.SetResult("/img/a.png", r, time.Second))
	assert.Same(t, r, s.Result())

	snap := s.Snapshot()
	assert.True(t, snap.HasResult())
	assert.Equal(t, "/img/a.png", snap.LastProcessedPath)
	assert.Equal(t, time.Second, snap.ProcessTime)
}

func TestSetResultForStaleSourceIsDropped(t *testing.T) {
	s := NewSession()
	s.SetSource("/img/a.png")
	s.SetSource("/img/b.png")

	assert.False(t, s.SetResult("/img/a.png", raster(t), 0))
	assert.Nil(t, s.Result())
	assert.Empty(t, s.Snapshot().LastProcessedPath)
}

func TestSetResultRejectsNilAndNoSource(t *testing.T) {
	s := NewSession()
	assert.False(t, s.SetResult("", raster(t), 0))
	assert.False(t, s.SetResult("/img/a.png", raster(t), 0))

	s.SetSource("/img/a.png")
	assert.False(t, s.SetResult("/img/a.png", nil, 0))
}

func TestNewSourceInvalidatesResult(t *testing.T) {
	s := NewSession()
	s.SetSource("/img/a.png")
	require.True(t, s.SetResult("/img/a.png", raster(t), 0))

	s.SetSource("/img/b.png")
	assert.Nil(t, s.Result())
	assert.False(t, s.Snapshot().HasResult())
	assert.Equal(t, "/img/b.png", s.SourcePath())
}

func TestReselectingSameSourceKeepsResult(t *testing.T) {
	s := NewSession()
	s.SetSource("/img/a.png")
	r := raster(t)
	require.True(t, s.SetResult("/img/a.png", r, 0))

	s.SetSource("/img/a.png")
	assert.Same(t, r, s.Result())
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := NewSession()
	r := raster(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.SetSource("/img/a.png")
				s.SetResult("/img/a.png", r, 0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := s.Snapshot()
				if snap.HasResult() {
					assert.Same(t, r, snap.Result)
				}
			}
		}()
	}
	wg.Wait()
}
