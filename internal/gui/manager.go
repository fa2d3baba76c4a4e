package gui

import (
	"sync"

	"depixel/internal/gui/components"
	"depixel/internal/logger"
	"depixel/internal/models"
	"depixel/internal/navigation"
	"depixel/internal/pipeline"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// Manager owns the window content. It shows exactly the screen the
// navigation machine reports as current.
type Manager struct {
	window   fyne.Window
	machine  *navigation.Machine
	session  *models.Session
	sources  *models.SourceCache
	logger   logger.Logger
	shutdown sync.Once

	welcome *welcomeScreen
	main    *mainScreen
	enhance *enhanceScreen
	compare *compareScreen
	screens map[navigation.Screen]screenView

	waitDialog *components.WaitDialog
}

// NewManager builds every screen. runs may be nil when no enhancement
// service is attached.
func NewManager(
	window fyne.Window,
	machine *navigation.Machine,
	session *models.Session,
	sources *models.SourceCache,
	runs RunState,
	opts ViewportOptions,
	log logger.Logger,
) *Manager {
	m := &Manager{
		window:     window,
		machine:    machine,
		session:    session,
		sources:    sources,
		logger:     log,
		waitDialog: components.NewWaitDialog(window),
	}

	m.welcome = newWelcomeScreen(m)
	m.main = newMainScreen(m, opts)
	m.enhance = newEnhanceScreen(m, session, sources, runs, opts)
	m.compare = newCompareScreen(m, session, sources, opts)
	m.compare.onError = func(err error) { m.ShowError("Compare", err) }

	m.screens = map[navigation.Screen]screenView{
		navigation.Welcome: m.welcome,
		navigation.Main:    m.main,
		navigation.Enhance: m.enhance,
		navigation.Compare: m.compare,
	}

	machine.OnTransition(func(_, to navigation.Screen) {
		fyne.Do(func() { m.display(to) })
	})

	log.Info("GUIManager", "initialized", map[string]interface{}{
		"screens": len(m.screens),
	})
	return m
}

// TransitionTo implements navigation.Navigator for the screens. Failed
// transitions are logged and otherwise ignored.
func (m *Manager) TransitionTo(s navigation.Screen) error {
	if err := m.machine.TransitionTo(s); err != nil {
		m.logger.Warning("GUIManager", "transition rejected", map[string]interface{}{
			"target": s.String(),
			"error":  err.Error(),
		})
		return err
	}
	return nil
}

// ShowCurrent puts the current screen into the window. Call on the UI
// goroutine.
func (m *Manager) ShowCurrent() {
	m.display(m.machine.Current())
}

func (m *Manager) display(s navigation.Screen) {
	view, ok := m.screens[s]
	if !ok {
		return
	}
	if s == navigation.Enhance {
		// Entering Enhance starts a fresh run for a source without a result.
		m.enhance.failed = ""
	}
	m.window.SetContent(view.Content())
	view.OnShow()
}

// RefreshCurrent re-reads the session into the visible screen.
func (m *Manager) RefreshCurrent() {
	fyne.Do(func() {
		if view, ok := m.screens[m.machine.Current()]; ok {
			view.OnShow()
		}
	})
}

func (m *Manager) GetWindow() fyne.Window {
	return m.window
}

func (m *Manager) WaitPresenter() *components.WaitDialog {
	return m.waitDialog
}

func (m *Manager) SetImageLoadHandler(handler func()) {
	m.main.onUpload = handler
}

func (m *Manager) SetImageSaveHandler(handler func()) {
	m.enhance.onSave = handler
}

// SetSourceImage shows a freshly uploaded image on the main screen.
func (m *Manager) SetSourceImage(path string, r *pipeline.Raster) {
	fyne.Do(func() {
		m.main.setSource(path, r)
		m.logger.Debug("GUIManager", "source image set", map[string]interface{}{
			"path":   path,
			"width":  r.Width(),
			"height": r.Height(),
		})
	})
}

func (m *Manager) ShowError(title string, err error) {
	m.logger.Error("GUIManager", err, map[string]interface{}{
		"title": title,
	})

	fyne.Do(func() {
		dialog.ShowError(err, m.window)
	})
}

// EnhancementFailed reports a failed run for path and marks the enhance
// screen so it stops claiming work is in progress.
func (m *Manager) EnhancementFailed(path string, err error) {
	m.ShowError("Enhancement Error", err)

	fyne.Do(func() {
		m.enhance.failed = path
		if view, ok := m.screens[m.machine.Current()]; ok {
			view.OnShow()
		}
	})
}

func (m *Manager) ShowInformation(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, m.window)
	})
}

// Shutdown may be called from any goroutine; only the first call acts.
func (m *Manager) Shutdown() {
	m.shutdown.Do(func() {
		m.waitDialog.Hide()
		m.logger.Info("GUIManager", "shutdown initiated", nil)
	})
}
