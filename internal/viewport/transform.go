package viewport

import "math"

const (
	// WheelNotch is the scroll delta of one wheel detent.
	WheelNotch = 120.0
	// ZoomBase is the scale multiplier applied per notch.
	ZoomBase = 1.1
	// PanDivisor scales raw scroll deltas down to pan distances.
	PanDivisor = 5.0
)

// Transform maps image coordinates to surface coordinates:
// surface = image*Scale + Offset.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Identity is the unscaled, untranslated transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// ToSurface maps an image point to surface coordinates.
func (t Transform) ToSurface(x, y float64) (float64, float64) {
	return x*t.Scale + t.OffsetX, y*t.Scale + t.OffsetY
}

// ToImage maps a surface point back to image coordinates.
func (t Transform) ToImage(x, y float64) (float64, float64) {
	return (x - t.OffsetX) / t.Scale, (y - t.OffsetY) / t.Scale
}

// Fit scales an image to fit inside the view while keeping its aspect ratio,
// centred on both axes.
func Fit(viewW, viewH, imgW, imgH float64) Transform {
	if viewW <= 0 || viewH <= 0 || imgW <= 0 || imgH <= 0 {
		return Identity()
	}
	scale := math.Min(viewW/imgW, viewH/imgH)
	return Transform{
		Scale:   scale,
		OffsetX: (viewW - imgW*scale) / 2,
		OffsetY: (viewH - imgH*scale) / 2,
	}
}

// ZoomFactor converts a vertical wheel delta, in 1/120 notch units, to a
// scale multiplier.
func ZoomFactor(dy float64) float64 {
	return math.Pow(ZoomBase, dy/WheelNotch)
}

// ZoomAt scales by factor about the surface point (cx, cy), which stays
// fixed. Factors that would leave the scale non-finite or non-positive are
// ignored.
func (t Transform) ZoomAt(factor, cx, cy float64) Transform {
	if !finite(factor) || factor <= 0 {
		return t
	}
	scale := t.Scale * factor
	if !finite(scale) || scale <= 0 {
		return t
	}
	ix, iy := t.ToImage(cx, cy)
	return Transform{
		Scale:   scale,
		OffsetX: cx - ix*scale,
		OffsetY: cy - iy*scale,
	}
}

// PanDelta converts a raw scroll delta into a content translation.
func PanDelta(dx, dy float64) (float64, float64) {
	return -dx / PanDivisor, -dy / PanDivisor
}

// Pan translates the content by the pan delta of (dx, dy).
func (t Transform) Pan(dx, dy float64) Transform {
	px, py := PanDelta(dx, dy)
	if !finite(px) || !finite(py) {
		return t
	}
	t.OffsetX += px
	t.OffsetY += py
	return t
}

// Translate moves the content by (dx, dy) surface units, as a hand drag does.
func (t Transform) Translate(dx, dy float64) Transform {
	if !finite(dx) || !finite(dy) {
		return t
	}
	t.OffsetX += dx
	t.OffsetY += dy
	return t
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
