package viewport

import "sync"

// Rect is an axis-aligned area in the router's coordinate space.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive so adjacent rectangles never both match.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

type route struct {
	bounds  Rect
	surface Surface
}

// Router dispatches scroll events to the single surface under the cursor.
type Router struct {
	mu         sync.RWMutex
	routes     []route
	controller *Controller
}

func NewRouter(controller *Controller) *Router {
	return &Router{controller: controller}
}

// Add registers a surface and returns its index.
func (r *Router) Add(s Surface) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{surface: s})
	return len(r.routes) - 1
}

// SetBounds updates where surface i sits. Called on every layout pass.
func (r *Router) SetBounds(i int, b Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i >= 0 && i < len(r.routes) {
		r.routes[i].bounds = b
	}
}

func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Hit returns the index of the surface containing (x, y), or -1.
func (r *Router) Hit(x, y float64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, rt := range r.routes {
		if rt.bounds.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Scroll hit-tests ev at event time and forwards it, in surface-local
// coordinates, to the surface under the cursor. With no surface under the
// cursor the event is still consumed.
func (r *Router) Scroll(ev ScrollEvent) Result {
	i := r.Hit(ev.X, ev.Y)
	if i < 0 {
		return Result{Consumed: true, Mode: ModeNone, Target: -1}
	}

	r.mu.RLock()
	rt := r.routes[i]
	r.mu.RUnlock()

	local := ev
	local.X -= rt.bounds.X
	local.Y -= rt.bounds.Y
	res := r.controller.Handle(local, rt.surface)
	res.Target = i
	return res
}

// Drag moves the content of the surface under (x, y) by (dx, dy).
func (r *Router) Drag(x, y, dx, dy float64) Result {
	i := r.Hit(x, y)
	if i < 0 {
		return Result{Consumed: true, Mode: ModeNone, Target: -1}
	}

	r.mu.RLock()
	s := r.routes[i].surface
	r.mu.RUnlock()

	s.SetTransform(s.Transform().Translate(dx, dy))
	return Result{Consumed: true, Mode: ModePan, Target: i}
}
