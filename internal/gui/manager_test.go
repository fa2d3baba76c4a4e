package gui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"depixel/internal/logger"
	"depixel/internal/models"
	"depixel/internal/navigation"
	"depixel/internal/pipeline"
	"depixel/internal/viewport"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuns struct {
	running atomic.Bool
}

func (r *fakeRuns) Running() bool { return r.running.Load() }

type harness struct {
	m       *Manager
	machine *navigation.Machine
	session *models.Session
	sources *models.SourceCache
}

func newHarness(t *testing.T, runs RunState) harness {
	t.Helper()
	a := test.NewTempApp(t)
	w := a.NewWindow("depixel")
	t.Cleanup(w.Close)

	session := models.NewSession()
	sources := models.NewSourceCache()
	machine := navigation.New(context.Background(), session, nil, logger.NoOp{})
	m := NewManager(w, machine, session, sources, runs, ViewportOptions{}, logger.NoOp{})
	m.ShowCurrent()
	return harness{m: m, machine: machine, session: session, sources: sources}
}

// upload mirrors what the upload handler does after a successful load.
func (h harness) upload(path string, r *pipeline.Raster) {
	h.sources.Set(path, r)
	h.session.SetSource(path)
	h.m.SetSourceImage(path, r)
}

func solid(t *testing.T, w, h int) *pipeline.Raster {
	t.Helper()
	r, err := pipeline.NewRaster(w, h, make([]uint8, w*h*pipeline.Channels))
	require.NoError(t, err)
	return r
}

func TestManagerStartsOnWelcome(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, navigation.Welcome, h.machine.Current())
	assert.Equal(t, h.m.welcome.Content(), h.m.GetWindow().Content())
}

func TestStartButtonShowsMain(t *testing.T) {
	h := newHarness(t, nil)

	test.Tap(h.m.welcome.start)

	assert.Equal(t, navigation.Main, h.machine.Current())
	assert.Equal(t, h.m.main.Content(), h.m.GetWindow().Content())
}

func TestRejectedTransitionKeepsScreen(t *testing.T) {
	h := newHarness(t, nil)

	err := h.m.TransitionTo(navigation.Compare)
	assert.ErrorIs(t, err, navigation.ErrInvalidTransition)
	assert.Equal(t, navigation.Welcome, h.machine.Current())
	assert.Equal(t, h.m.welcome.Content(), h.m.GetWindow().Content())
}

func TestEnhanceWithoutSourceAsksForUpload(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.m.TransitionTo(navigation.Main))
	test.Tap(h.m.main.enhance)

	assert.Equal(t, h.m.enhance.Content(), h.m.GetWindow().Content())
	assert.Equal(t, statusNoSource, h.m.enhance.status.Status())
	assert.False(t, h.m.enhance.surface.HasImage())
}

func TestEnhanceShowsProcessingThenResult(t *testing.T) {
	h := newHarness(t, nil)
	h.upload("/tmp/a.png", solid(t, 2, 2))
	assert.Equal(t, "a.png", h.m.main.pathLabel.Text)

	require.NoError(t, h.m.TransitionTo(navigation.Main))
	require.NoError(t, h.m.TransitionTo(navigation.Enhance))
	assert.Equal(t, statusProcessing, h.m.enhance.status.Status())

	require.True(t, h.session.SetResult("/tmp/a.png", solid(t, 8, 8), time.Second))
	h.m.RefreshCurrent()

	assert.Equal(t, statusEnhanced, h.m.enhance.status.Status())
	assert.True(t, h.m.enhance.surface.HasImage())
}

func TestEnhanceReportsFailedRun(t *testing.T) {
	h := newHarness(t, nil)
	h.upload("/tmp/a.png", solid(t, 2, 2))

	require.NoError(t, h.m.TransitionTo(navigation.Main))
	require.NoError(t, h.m.TransitionTo(navigation.Enhance))
	require.Equal(t, statusProcessing, h.m.enhance.status.Status())

	h.m.EnhancementFailed("/tmp/a.png", errors.New("weights missing"))
	assert.Equal(t, statusFailed, h.m.enhance.status.Status())
	assert.False(t, h.m.enhance.surface.HasImage())

	h.m.RefreshCurrent()
	assert.Equal(t, statusFailed, h.m.enhance.status.Status(), "refresh keeps the failure")

	// Coming back to Enhance retries, so the screen shows work again.
	test.Tap(h.m.enhance.back)
	require.NoError(t, h.m.TransitionTo(navigation.Enhance))
	assert.Equal(t, statusProcessing, h.m.enhance.status.Status())
}

func TestEnhanceFailureForOtherSourceIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.upload("/tmp/b.png", solid(t, 2, 2))

	require.NoError(t, h.m.TransitionTo(navigation.Main))
	require.NoError(t, h.m.TransitionTo(navigation.Enhance))

	h.m.EnhancementFailed("/tmp/a.png", errors.New("stale"))
	assert.Equal(t, statusProcessing, h.m.enhance.status.Status())
}

func TestEnhanceFailureWhileNewRunInFlight(t *testing.T) {
	runs := &fakeRuns{}
	h := newHarness(t, runs)
	h.upload("/tmp/a.png", solid(t, 2, 2))

	require.NoError(t, h.m.TransitionTo(navigation.Main))
	require.NoError(t, h.m.TransitionTo(navigation.Enhance))

	runs.running.Store(true)
	h.m.EnhancementFailed("/tmp/a.png", errors.New("first attempt"))
	assert.Equal(t, statusProcessing, h.m.enhance.status.Status())

	runs.running.Store(false)
	h.m.RefreshCurrent()
	assert.Equal(t, statusFailed, h.m.enhance.status.Status())
}

func TestFitButtonRefitsSurface(t *testing.T) {
	h := newHarness(t, nil)
	h.upload("/tmp/a.png", solid(t, 4, 2))
	require.NoError(t, h.m.TransitionTo(navigation.Main))

	surface := h.m.main.surface
	surface.Resize(fyne.NewSize(200, 100))
	surface.SetTransform(viewport.Transform{Scale: 3, OffsetX: 7, OffsetY: -2})

	test.Tap(h.m.main.fit)

	assert.Equal(t, viewport.Fit(200, 100, 4, 2), surface.Transform())
}

func TestCompareWithoutResultShowsPlaceholder(t *testing.T) {
	h := newHarness(t, nil)
	h.upload("/tmp/a.png", solid(t, 2, 2))

	require.NoError(t, h.m.TransitionTo(navigation.Main))
	require.NoError(t, h.m.TransitionTo(navigation.Enhance))
	test.Tap(h.m.enhance.compare)

	assert.Equal(t, h.m.compare.Content(), h.m.GetWindow().Content())
	assert.True(t, h.m.compare.showingPlaceholder())
	assert.Equal(t, comparePlaceholder, h.m.compare.placeholder.Text)
	assert.False(t, h.m.compare.original.HasImage())
}

func TestCompareShowsBothImages(t *testing.T) {
	h := newHarness(t, nil)
	h.upload("/tmp/a.png", solid(t, 2, 2))
	require.True(t, h.session.SetResult("/tmp/a.png", solid(t, 8, 8), time.Second))

	require.NoError(t, h.m.TransitionTo(navigation.Main))
	require.NoError(t, h.m.TransitionTo(navigation.Enhance))
	require.NoError(t, h.m.TransitionTo(navigation.Compare))

	assert.False(t, h.m.compare.showingPlaceholder())
	assert.True(t, h.m.compare.original.HasImage())
	assert.True(t, h.m.compare.enhanced.HasImage())

	test.Tap(h.m.compare.back)
	assert.Equal(t, h.m.enhance.Content(), h.m.GetWindow().Content())
}

func TestCompareLoadsUncachedSourceInBackground(t *testing.T) {
	h := newHarness(t, nil)

	path := filepath.Join(t.TempDir(), "a.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, pipeline.Save(f, solid(t, 3, 3), pipeline.FormatPNG))
	require.NoError(t, f.Close())

	h.session.SetSource(path)
	require.True(t, h.session.SetResult(path, solid(t, 12, 12), time.Second))

	require.NoError(t, h.m.TransitionTo(navigation.Main))
	require.NoError(t, h.m.TransitionTo(navigation.Enhance))
	require.NoError(t, h.m.TransitionTo(navigation.Compare))

	assert.Eventually(t, func() bool {
		return h.m.compare.original.HasImage() && h.m.compare.enhanced.HasImage()
	}, 2*time.Second, 10*time.Millisecond)

	_, cached := h.sources.Peek(path)
	assert.True(t, cached)
}

func TestManagerShutdownFromManyGoroutines(t *testing.T) {
	h := newHarness(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.m.Shutdown()
		}()
	}
	wg.Wait()

	assert.False(t, h.m.WaitPresenter().Visible())
}
