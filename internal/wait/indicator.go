package wait

import (
	"sync"

	"depixel/internal/eventbus"
	"depixel/internal/logger"
)

// DefaultMessage is shown when a started event carries no message.
const DefaultMessage = "Please wait, the image is being processed..."

// Presenter displays and dismisses the blocking feedback.
type Presenter interface {
	Show(message string)
	Hide()
}

// Subscriber is the part of the event bus the indicator needs.
type Subscriber interface {
	Subscribe(eventType string, handler eventbus.EventHandler)
}

// Indicator shows its presenter while at least one Handle is held.
type Indicator struct {
	mu        sync.Mutex
	presenter Presenter
	active    int
	tasks     map[string]*Handle
	logger    logger.Logger
}

func New(presenter Presenter, log logger.Logger) *Indicator {
	return &Indicator{
		presenter: presenter,
		tasks:     make(map[string]*Handle),
		logger:    log,
	}
}

// Handle is a scoped hold on the indicator. Release is idempotent.
type Handle struct {
	once      sync.Once
	indicator *Indicator
}

func (h *Handle) Release() {
	if h == nil {
		return
	}
	h.once.Do(h.indicator.release)
}

// Begin shows the presenter if this is the first active hold.
func (i *Indicator) Begin(message string) *Handle {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.active++
	if i.active == 1 && i.presenter != nil {
		i.presenter.Show(message)
	}
	return &Handle{indicator: i}
}

func (i *Indicator) release() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.active == 0 {
		return
	}
	i.active--
	if i.active == 0 && i.presenter != nil {
		i.presenter.Hide()
	}
}

// Visible reports whether any hold is active.
func (i *Indicator) Visible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.active > 0
}

// Attach drives the indicator from enhancement task events: a started
// event begins a hold keyed by task id and the matching finished event
// releases it, whether the task succeeded or not.
func (i *Indicator) Attach(bus Subscriber) {
	bus.Subscribe(eventbus.EnhancementStarted, eventbus.HandlerFunc{
		ID: "wait-indicator",
		Fn: i.onStarted,
	})
	bus.Subscribe(eventbus.EnhancementFinished, eventbus.HandlerFunc{
		ID: "wait-indicator",
		Fn: i.onFinished,
	})
}

func (i *Indicator) onStarted(e eventbus.Event) {
	message := e.Str("message")
	if message == "" {
		message = DefaultMessage
	}
	h := i.Begin(message)

	i.mu.Lock()
	i.tasks[e.Str("task_id")] = h
	i.mu.Unlock()
}

func (i *Indicator) onFinished(e eventbus.Event) {
	id := e.Str("task_id")

	i.mu.Lock()
	h, ok := i.tasks[id]
	delete(i.tasks, id)
	i.mu.Unlock()

	if !ok {
		i.logger.Debug("WaitIndicator", "finished event without matching start", map[string]interface{}{
			"task_id": id,
		})
		return
	}
	h.Release()
}
