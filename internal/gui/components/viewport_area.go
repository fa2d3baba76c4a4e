package components

import (
	"depixel/internal/viewport"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ViewportArea lays out one or more image surfaces side by side and routes
// wheel and drag input to the surface under the cursor. Scroll events never
// reach the containers around it.
type ViewportArea struct {
	widget.BaseWidget

	surfaces      []*ImageSurface
	router        *viewport.Router
	unitsPerDelta float64
}

// NewViewportArea routes input to surfaces. unitsPerDelta converts toolkit
// scroll deltas into 1/120 notch units.
func NewViewportArea(zoomModifier func() bool, unitsPerDelta float64, surfaces ...*ImageSurface) *ViewportArea {
	if unitsPerDelta <= 0 {
		unitsPerDelta = 1
	}
	a := &ViewportArea{
		surfaces:      surfaces,
		router:        viewport.NewRouter(viewport.NewController(zoomModifier)),
		unitsPerDelta: unitsPerDelta,
	}
	for _, s := range surfaces {
		a.router.Add(s)
	}
	a.ExtendBaseWidget(a)
	return a
}

// ControlHeld reports whether Control is held on a desktop driver.
func ControlHeld() bool {
	app := fyne.CurrentApp()
	if app == nil {
		return false
	}
	if d, ok := app.Driver().(desktop.Driver); ok {
		return d.CurrentKeyModifiers()&fyne.KeyModifierControl != 0
	}
	return false
}

func (a *ViewportArea) Surfaces() []*ImageSurface {
	return a.surfaces
}

func (a *ViewportArea) Scrolled(ev *fyne.ScrollEvent) {
	a.router.Scroll(viewport.ScrollEvent{
		X:  float64(ev.Position.X),
		Y:  float64(ev.Position.Y),
		DX: float64(ev.Scrolled.DX) * a.unitsPerDelta,
		DY: float64(ev.Scrolled.DY) * a.unitsPerDelta,
	})
}

func (a *ViewportArea) Dragged(ev *fyne.DragEvent) {
	a.router.Drag(
		float64(ev.Position.X), float64(ev.Position.Y),
		float64(ev.Dragged.DX), float64(ev.Dragged.DY),
	)
}

func (a *ViewportArea) DragEnd() {}

func (a *ViewportArea) CreateRenderer() fyne.WidgetRenderer {
	objects := make([]fyne.CanvasObject, len(a.surfaces))
	for i, s := range a.surfaces {
		objects[i] = s
	}
	return &viewportAreaRenderer{area: a, objects: objects}
}

type viewportAreaRenderer struct {
	area    *ViewportArea
	objects []fyne.CanvasObject
}

func (r *viewportAreaRenderer) Layout(size fyne.Size) {
	n := len(r.area.surfaces)
	if n == 0 {
		return
	}

	gap := theme.Padding()
	width := (size.Width - gap*float32(n-1)) / float32(n)
	for i, s := range r.area.surfaces {
		x := float32(i) * (width + gap)
		s.Move(fyne.NewPos(x, 0))
		s.Resize(fyne.NewSize(width, size.Height))
		r.area.router.SetBounds(i, viewport.Rect{
			X: float64(x), Y: 0,
			W: float64(width), H: float64(size.Height),
		})
	}
}

func (r *viewportAreaRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200*float32(max(len(r.objects), 1)), 150)
}

func (r *viewportAreaRenderer) Refresh() {
	r.Layout(r.area.Size())
	for _, obj := range r.objects {
		obj.Refresh()
	}
}

func (r *viewportAreaRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *viewportAreaRenderer) Destroy() {}
