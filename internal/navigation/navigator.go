package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"depixel/internal/logger"
	"depixel/internal/models"
)

var ErrInvalidTransition = errors.New("invalid screen transition")

// Navigator is the capability handed to screens: they may request a move
// to another screen and nothing else.
type Navigator interface {
	TransitionTo(Screen) error
}

// SessionReader exposes the session data the navigator guards on.
type SessionReader interface {
	Snapshot() models.Snapshot
}

// Runner starts a background enhancement of path. Start returns false when
// a run is already in flight.
type Runner interface {
	Start(ctx context.Context, path string) bool
}

// Listener observes completed transitions.
type Listener func(from, to Screen)

// NeedsPipelineRun reports whether entering the enhancement screen must
// produce a new result: a source is selected and no result exists for
// exactly that source.
func NeedsPipelineRun(sourcePath string, hasResult bool, lastProcessedPath string) bool {
	if sourcePath == "" {
		return false
	}
	return !hasResult || lastProcessedPath != sourcePath
}

// CompareReady reports whether the comparison screen has both images.
func CompareReady(snap models.Snapshot) bool {
	return snap.HasSource() && snap.HasResult()
}

// Machine holds the single visible screen.
type Machine struct {
	mu        sync.Mutex
	current   Screen
	session   SessionReader
	runner    Runner
	listeners []Listener
	logger    logger.Logger
	ctx       context.Context
}

// New starts on the Welcome screen. runner may be nil, in which case
// entering Enhance never starts work.
func New(ctx context.Context, session SessionReader, runner Runner, log logger.Logger) *Machine {
	return &Machine{
		current: Welcome,
		session: session,
		runner:  runner,
		logger:  log,
		ctx:     ctx,
	}
}

func (m *Machine) Current() Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Visible reports whether s is the screen currently shown.
func (m *Machine) Visible(s Screen) bool {
	return m.Current() == s
}

// OnTransition registers l to be called after every transition.
func (m *Machine) OnTransition(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Dispatch applies a from the current screen.
func (m *Machine) Dispatch(a Action) error {
	from := m.Current()
	to, ok := Target(from, a)
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, a, from)
	}
	return m.TransitionTo(to)
}

// TransitionTo moves to the target screen if an edge from the current
// screen leads there. Entering Enhance starts the pipeline when the session
// has no result for its current source.
func (m *Machine) TransitionTo(to Screen) error {
	m.mu.Lock()
	from := m.current
	if !allowed(from, to) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	m.current = to
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	m.logger.Debug("Navigator", "screen changed", map[string]interface{}{
		"from": from.String(),
		"to":   to.String(),
	})

	for _, l := range listeners {
		l(from, to)
	}

	if to == Enhance {
		m.enterEnhance()
	}
	return nil
}

func (m *Machine) enterEnhance() {
	if m.session == nil || m.runner == nil {
		return
	}

	snap := m.session.Snapshot()
	if !NeedsPipelineRun(snap.SourcePath, snap.HasResult(), snap.LastProcessedPath) {
		return
	}

	if !m.runner.Start(m.ctx, snap.SourcePath) {
		m.logger.Debug("Navigator", "enhancement already running", map[string]interface{}{
			"path": snap.SourcePath,
		})
	}
}
