package app

import (
	"context"
	"errors"
	"time"

	"depixel/internal/debug/timing"
	"depixel/internal/eventbus"
	"depixel/internal/gui"
	"depixel/internal/logger"
	"depixel/internal/pipeline"
	"depixel/internal/services"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

type Handlers struct {
	ctx        context.Context
	images     *services.ImageService
	tracker    *timing.Tracker
	guiManager *gui.Manager
	logger     logger.Logger
}

func NewHandlers(ctx context.Context, images *services.ImageService, tracker *timing.Tracker, gm *gui.Manager, log logger.Logger) *Handlers {
	return &Handlers{
		ctx:        ctx,
		images:     images,
		tracker:    tracker,
		guiManager: gm,
		logger:     log,
	}
}

func (h *Handlers) HandleImageLoad() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			h.guiManager.ShowError("File Load Error", err)
			return
		}
		if reader == nil {
			h.logger.Debug("Handlers", "upload cancelled", nil)
			return
		}

		go func() {
			path := reader.URI().Path()
			raster, loadErr := h.images.Load(h.ctx, reader)
			if loadErr != nil {
				h.guiManager.ShowError("Image Load Error", loadErr)
				return
			}
			h.guiManager.SetSourceImage(path, raster)
		}()
	}, h.guiManager.GetWindow())

	open.SetFilter(storage.NewExtensionFileFilter(pipeline.SupportedExtensions))
	open.Show()
}

func (h *Handlers) HandleImageSave() {
	if !h.images.HasResult() {
		h.guiManager.ShowError("Save Error", services.ErrNoResult)
		return
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			h.guiManager.ShowError("File Save Error", err)
			return
		}
		if writer == nil {
			h.logger.Debug("Handlers", "save cancelled", nil)
			return
		}

		go func() {
			path := writer.URI().Path()
			if err := h.images.Save(h.ctx, writer); err != nil {
				h.guiManager.ShowError("Image Save Error", err)
				return
			}
			h.guiManager.ShowInformation("Saved", "Enhanced image written to "+path)
		}()
	}, h.guiManager.GetWindow())

	save.SetFileName("enhanced.png")
	save.Show()
}

// HandleEnhancementFinished refreshes the visible screen after a run, or
// reports the failure. Runs on the event bus worker.
func (h *Handlers) HandleEnhancementFinished(e eventbus.Event) {
	if err := e.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.guiManager.EnhancementFailed(e.Str("path"), err)
		return
	}
	h.guiManager.RefreshCurrent()
}

// HandleTimingCompleted logs each pipeline stage next to its running
// average.
func (h *Handlers) HandleTimingCompleted(e eventbus.Event) {
	operation := e.Str("operation")
	duration, _ := e.Data["duration"].(time.Duration)

	h.logger.Debug("Handlers", "stage timing", map[string]interface{}{
		"operation": operation,
		"duration":  duration.String(),
		"average":   h.tracker.GetAverageTime(operation).String(),
	})
}
