package components

import (
	"image"
	"sync"

	"depixel/internal/viewport"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ImageSurface draws one image through its own viewport transform. It fits
// the image to the surface whenever the image is replaced.
type ImageSurface struct {
	widget.BaseWidget

	mu         sync.Mutex
	img        image.Image
	transform  viewport.Transform
	fitPending bool

	raster *canvas.Raster
}

func NewImageSurface() *ImageSurface {
	s := &ImageSurface{transform: viewport.Identity()}
	s.raster = canvas.NewRaster(s.render)
	s.ExtendBaseWidget(s)
	return s
}

func (s *ImageSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.raster)
}

// SetImage replaces the content. Passing nil clears the surface.
func (s *ImageSurface) SetImage(img image.Image) {
	size := s.Size()

	s.mu.Lock()
	s.img = img
	s.fitPending = true
	s.fitLocked(size)
	s.mu.Unlock()

	s.Refresh()
}

func (s *ImageSurface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

func (s *ImageSurface) HasImage() bool {
	return s.Image() != nil
}

// Resize applies a pending fit once the surface has a real size.
func (s *ImageSurface) Resize(size fyne.Size) {
	s.BaseWidget.Resize(size)

	s.mu.Lock()
	s.fitLocked(size)
	s.mu.Unlock()
}

func (s *ImageSurface) fitLocked(size fyne.Size) {
	if !s.fitPending || s.img == nil || size.Width <= 0 || size.Height <= 0 {
		return
	}
	b := s.img.Bounds()
	s.transform = viewport.Fit(float64(size.Width), float64(size.Height), float64(b.Dx()), float64(b.Dy()))
	s.fitPending = false
}

// FitToView re-fits the current image to the surface.
func (s *ImageSurface) FitToView() {
	size := s.Size()
	s.mu.Lock()
	s.fitPending = true
	s.fitLocked(size)
	s.mu.Unlock()
	s.Refresh()
}

func (s *ImageSurface) Transform() viewport.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transform
}

func (s *ImageSurface) SetTransform(t viewport.Transform) {
	s.mu.Lock()
	s.transform = t
	s.fitPending = false
	s.mu.Unlock()

	s.raster.Refresh()
}

// render paints the image into a w×h pixel buffer. The transform is in
// canvas units, so it is scaled by the pixel density of the raster.
func (s *ImageSurface) render(w, h int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	s.mu.Lock()
	img, t := s.img, s.transform
	s.mu.Unlock()

	size := s.Size()
	if img == nil || w == 0 || h == 0 || size.Width <= 0 {
		return dst
	}

	density := float64(w) / float64(size.Width)
	a := t.Scale * density
	b := img.Bounds()
	// Where the image origin lands, so bounds not starting at 0 stay aligned.
	ox, oy := t.ToSurface(-float64(b.Min.X), -float64(b.Min.Y))
	s2d := f64.Aff3{
		a, 0, ox * density,
		0, a, oy * density,
	}

	var interp draw.Transformer = draw.ApproxBiLinear
	if a >= 2 {
		interp = draw.NearestNeighbor
	}
	interp.Transform(dst, s2d, img, b, draw.Src, nil)
	return dst
}
