package pipeline

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
)

const jpegQuality = 95

// Format names an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// FormatForPath picks the encoding from the file extension. Missing or
// unknown extensions fall back to PNG.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	default:
		return FormatPNG
	}
}

// Save encodes r to w.
func Save(w io.Writer, r *Raster, format Format) error {
	if r.Empty() {
		return fmt.Errorf("no image to save: %w", ErrEmptyRaster)
	}

	img := r.Image()
	switch format {
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	default:
		return png.Encode(w, img)
	}
}
