package viewport

// Mode is the interaction applied to a scroll event.
type Mode int

const (
	ModeNone Mode = iota
	ModePan
	ModeZoom
)

func (m Mode) String() string {
	switch m {
	case ModePan:
		return "pan"
	case ModeZoom:
		return "zoom"
	default:
		return "none"
	}
}

// ScrollEvent is a wheel or trackpad scroll. X and Y locate the cursor;
// DX and DY are in 1/120 notch units.
type ScrollEvent struct {
	X, Y   float64
	DX, DY float64
}

// Result describes how an event was handled. Consumed is always true:
// scroll events never propagate past a viewport.
type Result struct {
	Consumed bool
	Mode     Mode
	Target   int
}

// Surface is anything displaying content through a Transform.
type Surface interface {
	Transform() Transform
	SetTransform(Transform)
}

// Controller applies zoom or pan to a surface. ZoomModifier is asked on
// every event whether the zoom modifier key is held.
type Controller struct {
	ZoomModifier func() bool
}

func NewController(zoomModifier func() bool) *Controller {
	return &Controller{ZoomModifier: zoomModifier}
}

// Handle applies ev to target. The event position must be in the target's
// own coordinates.
func (c *Controller) Handle(ev ScrollEvent, target Surface) Result {
	if target == nil {
		return Result{Consumed: true, Mode: ModeNone, Target: -1}
	}

	t := target.Transform()
	if c.ZoomModifier != nil && c.ZoomModifier() {
		target.SetTransform(t.ZoomAt(ZoomFactor(ev.DY), ev.X, ev.Y))
		return Result{Consumed: true, Mode: ModeZoom}
	}

	target.SetTransform(t.Pan(ev.DX, ev.DY))
	return Result{Consumed: true, Mode: ModePan}
}
