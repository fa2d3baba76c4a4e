package timing

import (
	"context"
	"sync"
	"time"

	"depixel/internal/eventbus"
)

type timingKey struct{}

type EventPublisher interface {
	Publish(event eventbus.Event) bool
}

type TimingInfo struct {
	Operation string
	StartTime time.Time
}

// Tracker records durations per operation name and announces each
// completed measurement on the event bus.
type Tracker struct {
	timings  map[string][]time.Duration
	mu       sync.RWMutex
	eventBus EventPublisher
}

func NewTracker(eventBus EventPublisher) *Tracker {
	return &Tracker{
		timings:  make(map[string][]time.Duration),
		eventBus: eventBus,
	}
}

func (tt *Tracker) StartTiming(ctx context.Context, operation string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, timingKey{}, TimingInfo{
		Operation: operation,
		StartTime: time.Now(),
	})
}

// EndTiming records the time elapsed since the matching StartTiming and
// returns it. Contexts without a timing mark yield zero.
func (tt *Tracker) EndTiming(ctx context.Context) time.Duration {
	info, ok := ctx.Value(timingKey{}).(TimingInfo)
	if !ok {
		return 0
	}
	duration := time.Since(info.StartTime)

	tt.mu.Lock()
	tt.timings[info.Operation] = append(tt.timings[info.Operation], duration)
	tt.mu.Unlock()

	if tt.eventBus != nil {
		tt.eventBus.Publish(eventbus.Event{
			Type: eventbus.TimingCompleted,
			Data: map[string]interface{}{
				"operation": info.Operation,
				"duration":  duration,
			},
		})
	}
	return duration
}

// GetAverageTime is the mean of every recorded duration for operation.
func (tt *Tracker) GetAverageTime(operation string) time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, duration := range timings {
		total += duration
	}

	return total / time.Duration(len(timings))
}
