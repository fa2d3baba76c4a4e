package timing

import (
	"context"
	"sync"
	"testing"
	"time"

	"depixel/internal/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (c *capture) Publish(e eventbus.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return true
}

func TestTrackerRecordsDurations(t *testing.T) {
	pub := &capture{}
	tt := NewTracker(pub)

	ctx := tt.StartTiming(context.Background(), "decode")
	time.Sleep(2 * time.Millisecond)
	d := tt.EndTiming(ctx)

	assert.GreaterOrEqual(t, d, 2*time.Millisecond)
	assert.Equal(t, d, tt.GetAverageTime("decode"))

	require.Len(t, pub.events, 1)
	assert.Equal(t, eventbus.TimingCompleted, pub.events[0].Type)
	assert.Equal(t, "decode", pub.events[0].Str("operation"))
}

func TestTrackerKeepsParentContext(t *testing.T) {
	type key struct{}
	parent := context.WithValue(context.Background(), key{}, "v")

	ctx := NewTracker(nil).StartTiming(parent, "op")
	assert.Equal(t, "v", ctx.Value(key{}))
}

func TestTrackerUnmarkedContext(t *testing.T) {
	tt := NewTracker(nil)
	assert.Zero(t, tt.EndTiming(context.Background()))
	assert.Zero(t, tt.GetAverageTime("anything"))
}

func TestTrackerAveragesPerOperation(t *testing.T) {
	pub := &capture{}
	tt := NewTracker(pub)

	first := tt.EndTiming(tt.StartTiming(context.Background(), "enhance"))
	second := tt.EndTiming(tt.StartTiming(context.Background(), "enhance"))
	tt.EndTiming(tt.StartTiming(context.Background(), "decode"))

	assert.Equal(t, (first+second)/2, tt.GetAverageTime("enhance"))
	assert.Len(t, pub.events, 3)
}
