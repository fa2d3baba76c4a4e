package pipeline

import (
	"fmt"
	"image"
	"image/color"
)

// Channels is the sample count per pixel of every Raster.
const Channels = 3

// Raster is an immutable 8-bit RGB image. Pixels are interleaved row-major
// with a stride of 3*width. Every pipeline stage returns a new Raster.
type Raster struct {
	width  int
	height int
	pix    []uint8
}

// NewRaster copies pix into a new Raster.
func NewRaster(width, height int, pix []uint8) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d: %w", width, height, ErrEmptyRaster)
	}
	if len(pix) != width*height*Channels {
		return nil, fmt.Errorf("pixel buffer has %d samples, want %d", len(pix), width*height*Channels)
	}
	buf := make([]uint8, len(pix))
	copy(buf, pix)
	return &Raster{width: width, height: height, pix: buf}, nil
}

// FromImage converts any image.Image into a Raster, dropping alpha without
// premultiplying.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]uint8, w*h*Channels)

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				o := src.PixOffset(b.Min.X+x, b.Min.Y+y)
				i := (y*w + x) * Channels
				copy(pix[i:i+Channels], src.Pix[o:o+Channels])
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := (y*w + x) * Channels
				pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
			}
		}
	}

	return &Raster{width: w, height: h, pix: pix}
}

func (r *Raster) Width() int  { return r.width }
func (r *Raster) Height() int { return r.height }

func (r *Raster) Empty() bool {
	return r == nil || r.width == 0 || r.height == 0
}

// RGB returns the samples at (x, y).
func (r *Raster) RGB(x, y int) (uint8, uint8, uint8) {
	i := (y*r.width + x) * Channels
	return r.pix[i], r.pix[i+1], r.pix[i+2]
}

// Image returns a fresh opaque NRGBA copy for display surfaces and encoders.
func (r *Raster) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for i, j := 0, 0; i < len(r.pix); i, j = i+Channels, j+4 {
		img.Pix[j] = r.pix[i]
		img.Pix[j+1] = r.pix[i+1]
		img.Pix[j+2] = r.pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
