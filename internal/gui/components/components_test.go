package components

import (
	"image"
	"image/color"
	"testing"
	"time"

	"depixel/internal/viewport"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestImageSurfaceFitsOnResizeAndReplace(t *testing.T) {
	test.NewTempApp(t)

	s := NewImageSurface()
	s.SetImage(solid(100, 50, color.NRGBA{R: 255, A: 255}))
	assert.Equal(t, viewport.Identity(), s.Transform(), "no size yet, fit deferred")

	s.Resize(fyne.NewSize(400, 400))
	tr := s.Transform()
	assert.InDelta(t, 4.0, tr.Scale, 1e-6)
	assert.InDelta(t, 0.0, tr.OffsetX, 1e-6)
	assert.InDelta(t, 100.0, tr.OffsetY, 1e-6)

	s.SetTransform(viewport.Transform{Scale: 9, OffsetX: 3, OffsetY: 3})
	s.Resize(fyne.NewSize(400, 401))
	assert.Equal(t, 9.0, s.Transform().Scale, "user zoom survives layout")

	s.SetImage(solid(400, 401, color.NRGBA{G: 255, A: 255}))
	assert.InDelta(t, 1.0, s.Transform().Scale, 1e-6, "replacing content refits")
}

func TestImageSurfaceRender(t *testing.T) {
	test.NewTempApp(t)

	s := NewImageSurface()
	s.Resize(fyne.NewSize(20, 10))
	s.SetImage(solid(10, 10, color.NRGBA{B: 255, A: 255}))

	out := s.render(20, 10)
	require.Equal(t, image.Rect(0, 0, 20, 10), out.Bounds())

	// Fitted 10x10 into 20x10: content spans x in [5, 15).
	_, _, b, a := out.At(10, 5).RGBA()
	assert.Equal(t, uint32(0xffff), b)
	assert.Equal(t, uint32(0xffff), a)
	_, _, _, a = out.At(1, 5).RGBA()
	assert.Zero(t, a)
}

func TestImageSurfaceEmptyRender(t *testing.T) {
	test.NewTempApp(t)

	s := NewImageSurface()
	assert.False(t, s.HasImage())
	out := s.render(4, 4)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
}

func TestViewportAreaRoutesToHoveredSurface(t *testing.T) {
	test.NewTempApp(t)

	left, right := NewImageSurface(), NewImageSurface()
	area := NewViewportArea(func() bool { return false }, 12, left, right)
	area.Resize(fyne.NewSize(410, 200))

	before := left.Transform()
	area.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(350, 50)},
		Scrolled:   fyne.NewDelta(0, 10),
	})

	assert.Equal(t, before, left.Transform())
	// 10 toolkit units * 12 = 120 notch units, panned by -120/5.
	assert.InDelta(t, before.OffsetY-24, right.Transform().OffsetY, 1e-6)
}

func TestViewportAreaZoomWithModifier(t *testing.T) {
	test.NewTempApp(t)

	s := NewImageSurface()
	area := NewViewportArea(func() bool { return true }, 12, s)
	area.Resize(fyne.NewSize(200, 200))

	start := s.Transform().Scale
	area.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 100)},
		Scrolled:   fyne.NewDelta(0, 10),
	})
	assert.InDelta(t, start*1.1, s.Transform().Scale, 1e-9)
}

func TestViewportAreaDragPans(t *testing.T) {
	test.NewTempApp(t)

	s := NewImageSurface()
	area := NewViewportArea(nil, 12, s)
	area.Resize(fyne.NewSize(200, 200))

	area.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)},
		Dragged:    fyne.NewDelta(5, -2),
	})
	assert.Equal(t, viewport.Transform{Scale: 1, OffsetX: 5, OffsetY: -2}, s.Transform())
}

func TestControlHeldWithoutDesktopDriver(t *testing.T) {
	test.NewTempApp(t)
	assert.False(t, ControlHeld())
}

func TestWaitDialogShowHide(t *testing.T) {
	a := test.NewTempApp(t)
	w := a.NewWindow("wait")
	w.Resize(fyne.NewSize(300, 200))

	d := NewWaitDialog(w)
	d.Show("working")
	assert.True(t, d.Visible())
	d.Hide()
	assert.False(t, d.Visible())
}

func TestStatusBar(t *testing.T) {
	test.NewTempApp(t)

	sb := NewStatusBar()
	sb.SetStatus("Done")
	assert.Equal(t, "Done", sb.Status())
	sb.SetDetails(10, 10, 40, 40, 1500*time.Millisecond)
	assert.Equal(t, "Size: 10x10 → 40x40", sb.sizeLabel.Text)
	assert.Equal(t, "Time: 1.5s", sb.timeLabel.Text)
	sb.ClearDetails()
	assert.Equal(t, "Size: --", sb.sizeLabel.Text)
}
