package eventbus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"depixel/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handler(id string) HandlerFunc {
	return HandlerFunc{ID: id, Fn: func(e Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	}}
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestBusPreservesOrder(t *testing.T) {
	bus := NewBus(1, logger.NoOp{})
	rec := &recorder{}
	bus.Subscribe(EnhancementStarted, rec.handler("rec"))
	bus.Subscribe(EnhancementFinished, rec.handler("rec"))

	var want []string
	for i := 0; i < 50; i++ {
		require.True(t, bus.Publish(Event{Type: EnhancementStarted}))
		require.True(t, bus.Publish(Event{Type: EnhancementFinished}))
		want = append(want, EnhancementStarted, EnhancementFinished)
	}
	bus.Shutdown()

	assert.Equal(t, want, rec.types())
}

func TestBusStampsTimestamp(t *testing.T) {
	bus := NewBus(4, logger.NoOp{})
	rec := &recorder{}
	bus.Subscribe(TimingCompleted, rec.handler("rec"))

	bus.Publish(Event{Type: TimingCompleted})
	bus.Shutdown()

	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].Timestamp.IsZero())
}

func TestBusRecoversHandlerPanic(t *testing.T) {
	bus := NewBus(4, logger.NoOp{})
	rec := &recorder{}
	bus.Subscribe(EnhancementStarted, HandlerFunc{ID: "boom", Fn: func(Event) { panic("boom") }})
	bus.Subscribe(EnhancementStarted, rec.handler("rec"))

	bus.Publish(Event{Type: EnhancementStarted})
	bus.Publish(Event{Type: EnhancementStarted})
	bus.Shutdown()

	assert.Len(t, rec.types(), 2)
}

func TestPublishAfterShutdown(t *testing.T) {
	bus := NewBus(1, logger.NoOp{})
	bus.Shutdown()

	done := make(chan bool)
	go func() { done <- bus.Publish(Event{Type: EnhancementStarted}) }()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("publish blocked after shutdown")
	}
}

func TestEventAccessors(t *testing.T) {
	cause := errors.New("bad")
	e := Event{Data: map[string]interface{}{"path": "/a.png", "error": cause}}
	assert.Equal(t, "/a.png", e.Str("path"))
	assert.Equal(t, "", e.Str("missing"))
	assert.Equal(t, cause, e.Err())
	assert.Nil(t, Event{}.Err())
}
