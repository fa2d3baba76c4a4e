package app

import (
	"context"

	"depixel/internal/logger"
	"depixel/internal/shutdown"
)

type shutdownFunc = shutdown.Func

// Lifecycle owns the ordered shutdown of everything NewApplication builds.
type Lifecycle struct {
	manager *shutdown.Manager
	logger  logger.Logger
}

func NewLifecycle(log logger.Logger) *Lifecycle {
	return &Lifecycle{
		manager: shutdown.NewManager(log, shutdown.DefaultTimeout),
		logger:  log,
	}
}

// Context is cancelled as soon as shutdown begins. Background work started
// from the UI derives from it.
func (l *Lifecycle) Context() context.Context {
	return l.manager.Context()
}

func (l *Lifecycle) Register(name string, c shutdown.Shutdownable) {
	l.manager.Register(name, c)
}

func (l *Lifecycle) Listen(onSignal func()) {
	l.manager.Listen(onSignal)
}

// Shutdown is safe to call more than once.
func (l *Lifecycle) Shutdown() {
	l.manager.Shutdown()
}
