package gui

import (
	"path/filepath"

	"depixel/internal/gui/components"
	"depixel/internal/models"
	"depixel/internal/navigation"
	"depixel/internal/pipeline"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	comparePlaceholder = "Nothing to compare yet. Enhance an image first."
	compareLoading     = "Loading the original image..."

	statusEnhanced   = "Enhanced"
	statusProcessing = "Processing..."
	statusFailed     = "Enhancement failed"
	statusNoSource   = "Upload an image first"
)

type screenView interface {
	Content() fyne.CanvasObject
	// OnShow runs on the UI goroutine each time the screen becomes visible.
	OnShow()
}

// ViewportOptions configures every image area.
type ViewportOptions struct {
	ZoomModifier  func() bool
	UnitsPerDelta float64
}

// RunState reports whether an enhancement task is in flight.
type RunState interface {
	Running() bool
}

// fitButton re-fits every surface of area to its view.
func fitButton(area *components.ViewportArea) *widget.Button {
	return widget.NewButton("Fit", func() {
		for _, s := range area.Surfaces() {
			s.FitToView()
		}
	})
}

type welcomeScreen struct {
	content fyne.CanvasObject
	start   *widget.Button
}

func newWelcomeScreen(nav navigation.Navigator) *welcomeScreen {
	title := widget.NewLabelWithStyle("Depixel", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle("Restore detail in low-resolution images", fyne.TextAlignCenter, fyne.TextStyle{})
	start := widget.NewButton("Start", func() {
		_ = nav.TransitionTo(navigation.Main)
	})
	start.Importance = widget.HighImportance

	return &welcomeScreen{
		content: container.NewCenter(container.NewVBox(title, subtitle, start)),
		start:   start,
	}
}

func (s *welcomeScreen) Content() fyne.CanvasObject { return s.content }
func (s *welcomeScreen) OnShow()                    {}

type mainScreen struct {
	content   fyne.CanvasObject
	surface   *components.ImageSurface
	pathLabel *widget.Label
	upload    *widget.Button
	enhance   *widget.Button
	fit       *widget.Button
	onUpload  func()
}

func newMainScreen(nav navigation.Navigator, opts ViewportOptions) *mainScreen {
	s := &mainScreen{
		surface:   components.NewImageSurface(),
		pathLabel: widget.NewLabel("No image selected"),
	}
	s.upload = widget.NewButton("Upload image", func() {
		if s.onUpload != nil {
			s.onUpload()
		}
	})
	s.enhance = widget.NewButton("Enhance", func() {
		_ = nav.TransitionTo(navigation.Enhance)
	})
	s.enhance.Importance = widget.HighImportance

	area := components.NewViewportArea(opts.ZoomModifier, opts.UnitsPerDelta, s.surface)
	s.fit = fitButton(area)
	toolbar := container.NewBorder(nil, nil, s.upload, container.NewHBox(s.fit, s.enhance), s.pathLabel)
	s.content = container.NewBorder(nil, toolbar, nil, nil, area)
	return s
}

func (s *mainScreen) Content() fyne.CanvasObject { return s.content }
func (s *mainScreen) OnShow()                    {}

func (s *mainScreen) setSource(path string, r *pipeline.Raster) {
	s.pathLabel.SetText(filepath.Base(path))
	s.surface.SetImage(r.Image())
}

type enhanceScreen struct {
	content fyne.CanvasObject
	surface *components.ImageSurface
	status  *components.StatusBar
	back    *widget.Button
	compare *widget.Button
	save    *widget.Button
	fit     *widget.Button
	onSave  func()

	session *models.Session
	sources *models.SourceCache
	runs    RunState
	shown   *pipeline.Raster
	// failed is the source path whose last run failed. UI goroutine only.
	failed string
}

func newEnhanceScreen(nav navigation.Navigator, session *models.Session, sources *models.SourceCache, runs RunState, opts ViewportOptions) *enhanceScreen {
	s := &enhanceScreen{
		surface: components.NewImageSurface(),
		status:  components.NewStatusBar(),
		session: session,
		sources: sources,
		runs:    runs,
	}
	s.back = widget.NewButton("Back", func() {
		_ = nav.TransitionTo(navigation.Main)
	})
	s.compare = widget.NewButton("Compare", func() {
		_ = nav.TransitionTo(navigation.Compare)
	})
	s.save = widget.NewButton("Save", func() {
		if s.onSave != nil {
			s.onSave()
		}
	})

	area := components.NewViewportArea(opts.ZoomModifier, opts.UnitsPerDelta, s.surface)
	s.fit = fitButton(area)
	buttons := container.NewHBox(s.back, s.fit, s.compare, s.save)
	bottom := container.NewVBox(s.status.GetContainer(), buttons)
	s.content = container.NewBorder(nil, bottom, nil, nil, area)
	return s
}

func (s *enhanceScreen) Content() fyne.CanvasObject { return s.content }

func (s *enhanceScreen) OnShow() {
	snap := s.session.Snapshot()

	switch {
	case snap.HasResult():
		if s.shown != snap.Result {
			s.surface.SetImage(snap.Result.Image())
			s.shown = snap.Result
		}
		s.status.SetStatus(statusEnhanced)
		if src, ok := s.sources.Peek(snap.SourcePath); ok {
			s.status.SetDetails(src.Width(), src.Height(), snap.Result.Width(), snap.Result.Height(), snap.ProcessTime)
		} else {
			s.status.ClearDetails()
		}
	case snap.HasSource() && s.failed == snap.SourcePath && !s.running():
		s.clear()
		s.status.SetStatus(statusFailed)
	case snap.HasSource():
		s.clear()
		s.status.SetStatus(statusProcessing)
	default:
		s.clear()
		s.status.SetStatus(statusNoSource)
	}
}

func (s *enhanceScreen) running() bool {
	return s.runs != nil && s.runs.Running()
}

func (s *enhanceScreen) clear() {
	if s.shown != nil || s.surface.HasImage() {
		s.surface.SetImage(nil)
		s.shown = nil
	}
	s.status.ClearDetails()
}

type compareScreen struct {
	content     fyne.CanvasObject
	original    *components.ImageSurface
	enhanced    *components.ImageSurface
	images      fyne.CanvasObject
	placeholder *widget.Label
	back        *widget.Button
	fit         *widget.Button

	session *models.Session
	sources *models.SourceCache
	onError func(error)
}

func newCompareScreen(nav navigation.Navigator, session *models.Session, sources *models.SourceCache, opts ViewportOptions) *compareScreen {
	s := &compareScreen{
		original:    components.NewImageSurface(),
		enhanced:    components.NewImageSurface(),
		placeholder: widget.NewLabelWithStyle(comparePlaceholder, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		session:     session,
		sources:     sources,
	}
	s.back = widget.NewButton("Back", func() {
		_ = nav.TransitionTo(navigation.Enhance)
	})

	area := components.NewViewportArea(opts.ZoomModifier, opts.UnitsPerDelta, s.original, s.enhanced)
	s.fit = fitButton(area)
	labels := container.NewGridWithColumns(2,
		widget.NewLabelWithStyle("Original", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Enhanced", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
	)
	s.images = container.NewBorder(labels, nil, nil, nil, area)
	s.content = container.NewBorder(nil, container.NewHBox(s.back, s.fit), nil, nil,
		container.NewStack(s.images, container.NewCenter(s.placeholder)))
	return s
}

func (s *compareScreen) Content() fyne.CanvasObject { return s.content }

func (s *compareScreen) OnShow() {
	snap := s.session.Snapshot()
	if !navigation.CompareReady(snap) {
		s.showPlaceholder(comparePlaceholder)
		return
	}

	src, ok := s.sources.Peek(snap.SourcePath)
	if !ok {
		s.showPlaceholder(compareLoading)
		go s.loadSource(snap.SourcePath)
		return
	}

	s.original.SetImage(src.Image())
	s.enhanced.SetImage(snap.Result.Image())
	s.placeholder.Hide()
	s.images.Show()
}

// loadSource decodes the original off the UI goroutine and shows the
// screen again once it is cached.
func (s *compareScreen) loadSource(path string) {
	if _, err := s.sources.Get(path); err != nil {
		if s.onError != nil {
			s.onError(err)
		}
		fyne.Do(func() { s.showPlaceholder(comparePlaceholder) })
		return
	}
	fyne.Do(s.OnShow)
}

func (s *compareScreen) showPlaceholder(text string) {
	s.placeholder.SetText(text)
	s.original.SetImage(nil)
	s.enhanced.SetImage(nil)
	s.images.Hide()
	s.placeholder.Show()
}

func (s *compareScreen) showingPlaceholder() bool {
	return !s.placeholder.Hidden
}
