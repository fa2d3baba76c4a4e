package app

import (
	"context"

	"depixel/internal/config"
	"depixel/internal/debug/timing"
	"depixel/internal/eventbus"
	"depixel/internal/gui"
	"depixel/internal/gui/components"
	"depixel/internal/inference"
	"depixel/internal/logger"
	"depixel/internal/models"
	"depixel/internal/navigation"
	"depixel/internal/opencv/dnn"
	"depixel/internal/services"
	"depixel/internal/shutdown"
	"depixel/internal/wait"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Depixel"
	AppID      = "com.depixel.viewer"
	AppVersion = "1.0.0"

	eventBufferSize = 64
)

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	config     config.AppConfig
	logger     logger.Logger
	bus        *eventbus.Bus
	tracker    *timing.Tracker
	session    *models.Session
	sources    *models.SourceCache
	models     *inference.Cache
	enhancer   *services.EnhancementService
	machine    *navigation.Machine
	guiManager *gui.Manager
	indicator  *wait.Indicator
	lifecycle  *Lifecycle
}

func NewApplication(cfg config.AppConfig, log logger.Logger) (*Application, error) {
	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)

	window.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":       AppVersion,
		"window_width":  cfg.Window.Width,
		"window_height": cfg.Window.Height,
		"model":         cfg.Model.Path,
	})

	lifecycle := NewLifecycle(log)
	ctx := lifecycle.Context()

	bus := eventbus.NewBus(eventBufferSize, log)
	tracker := timing.NewTracker(bus)
	session := models.NewSession()
	sources := models.NewSourceCache()

	modelCfg := cfg.Model
	cache := inference.NewCache(func(context.Context) (inference.Model, error) {
		m, err := dnn.Load(modelCfg, log)
		if err != nil {
			return nil, err
		}
		return m, nil
	}, log)

	enhancer := services.NewEnhancementService(session, sources, cache, bus, tracker, log)
	machine := navigation.New(ctx, session, enhancer, log)

	guiManager := gui.NewManager(window, machine, session, sources, enhancer, gui.ViewportOptions{
		ZoomModifier:  components.ControlHeld,
		UnitsPerDelta: cfg.Viewport.WheelUnitsPerDelta,
	}, log)

	indicator := wait.New(guiManager.WaitPresenter(), log)
	indicator.Attach(bus)

	// Registration order is startup order; shutdown runs in reverse.
	lifecycle.Register("model", shutdownFunc(func() {
		if err := cache.Close(); err != nil {
			log.Error("Application", err, map[string]interface{}{"component": "model"})
		}
	}))
	lifecycle.Register("event-bus", shutdownFunc(bus.Shutdown))
	lifecycle.Register("enhancement", shutdownFunc(enhancer.Wait))
	lifecycle.Register("gui", shutdownFunc(guiManager.Shutdown))

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		config:     cfg,
		logger:     log,
		bus:        bus,
		tracker:    tracker,
		session:    session,
		sources:    sources,
		models:     cache,
		enhancer:   enhancer,
		machine:    machine,
		guiManager: guiManager,
		indicator:  indicator,
		lifecycle:  lifecycle,
	}

	application.setupHandlers(ctx)

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

func (a *Application) setupHandlers(ctx context.Context) {
	images := services.NewImageService(a.session, a.sources, a.logger)
	handlers := NewHandlers(ctx, images, a.tracker, a.guiManager, a.logger)

	a.guiManager.SetImageLoadHandler(handlers.HandleImageLoad)
	a.guiManager.SetImageSaveHandler(handlers.HandleImageSave)

	a.bus.Subscribe(eventbus.EnhancementFinished, eventbus.HandlerFunc{
		ID: "application",
		Fn: handlers.HandleEnhancementFinished,
	})
	a.bus.Subscribe(eventbus.TimingCompleted, eventbus.HandlerFunc{
		ID: "application",
		Fn: handlers.HandleTimingCompleted,
	})
}

func (a *Application) Run() error {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		if a.indicator.Visible() {
			a.logger.Warning("Application", "closing while an enhancement is running", nil)
		}
		a.saveWindowSize()
		a.lifecycle.Shutdown()
		a.window.Close()
	})
	a.lifecycle.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.guiManager.ShowCurrent()
	a.window.Show()

	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.lifecycle.Shutdown()
	return nil
}

// saveWindowSize keeps the window size for the next start.
func (a *Application) saveWindowSize() {
	size := a.window.Canvas().Size()
	window := config.WindowConfig{Width: int(size.Width), Height: int(size.Height)}
	if window.Width <= 0 || window.Height <= 0 || window == a.config.Window {
		return
	}

	if err := config.SaveWindow(window); err != nil {
		a.logger.Warning("Application", "window size not saved", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	a.config.Window = window
}
