package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the file types accepted by the upload dialog.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png"}

// IsSupported reports whether path has an accepted image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Decode reads and decodes the image at path.
func Decode(path string) (*Raster, error) {
	if !IsSupported(path) {
		return nil, &DecodeError{Path: path, Err: ErrUnsupportedFormat}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	return DecodeReader(f, path)
}

// DecodeReader decodes an image from r. name is used only for errors.
func DecodeReader(r io.Reader, name string) (*Raster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Path: name, Err: fmt.Errorf("read image data: %w", err)}
	}
	if len(data) == 0 {
		return nil, &DecodeError{Path: name, Err: ErrEmptyRaster}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Path: name, Err: err}
	}

	raster := FromImage(img)
	if raster.Empty() {
		return nil, &DecodeError{Path: name, Err: ErrEmptyRaster}
	}
	return raster, nil
}
