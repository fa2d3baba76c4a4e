package services

import (
	"context"
	"errors"
	"fmt"

	"depixel/internal/logger"
	"depixel/internal/models"
	"depixel/internal/pipeline"

	"fyne.io/fyne/v2"
)

var ErrNoResult = errors.New("no enhanced image to save")

// ImageService moves images between the session and dialog-selected URIs.
type ImageService struct {
	session *models.Session
	sources *models.SourceCache
	logger  logger.Logger
}

func NewImageService(session *models.Session, sources *models.SourceCache, log logger.Logger) *ImageService {
	return &ImageService{session: session, sources: sources, logger: log}
}

// Load decodes the chosen file and makes it the session source. A nil reader
// means the dialog was cancelled.
func (is *ImageService) Load(ctx context.Context, reader fyne.URIReadCloser) (*pipeline.Raster, error) {
	if reader == nil {
		return nil, pipeline.ErrSelectionCancelled
	}
	defer reader.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := reader.URI().Path()
	if !pipeline.IsSupported(path) {
		return nil, &pipeline.DecodeError{Path: path, Err: pipeline.ErrUnsupportedFormat}
	}

	raster, err := pipeline.DecodeReader(reader, path)
	if err != nil {
		return nil, err
	}

	is.sources.Set(path, raster)
	is.session.SetSource(path)
	is.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"path":   path,
		"width":  raster.Width(),
		"height": raster.Height(),
	})
	return raster, nil
}

// HasResult reports whether there is an enhanced image to save.
func (is *ImageService) HasResult() bool {
	return is.session.Result() != nil
}

// Save writes the current result to writer in the format implied by its
// extension. A nil writer means the dialog was cancelled.
func (is *ImageService) Save(ctx context.Context, writer fyne.URIWriteCloser) (err error) {
	if writer == nil {
		return pipeline.ErrSelectionCancelled
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	result := is.session.Result()
	if result == nil {
		return ErrNoResult
	}

	path := writer.URI().Path()
	format := pipeline.FormatForPath(path)
	if err := pipeline.Save(writer, result, format); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	is.logger.Info("ImageService", "image saved", map[string]interface{}{
		"path":   path,
		"format": string(format),
	})
	return nil
}
