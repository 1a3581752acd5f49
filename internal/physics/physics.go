// Package physics provides collision detection and vector utilities.
package physics

import "math"

// degenerateLenSq is the squared length below which a vector has no direction.
const degenerateLenSq = 1e-6

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Unit returns the unit vector of (x, y), or (0, 0) for a near-zero vector.
func Unit(x, y float64) (float64, float64) {
	l2 := x*x + y*y
	if l2 <= degenerateLenSq {
		return 0, 0
	}
	inv := 1 / math.Sqrt(l2)
	return x * inv, y * inv
}

// Direction returns the unit vector of (x, y). A near-zero vector yields
// (1, 0) so projectiles always have a heading.
func Direction(x, y float64) (float64, float64) {
	l := math.Sqrt(x*x + y*y)
	if l < 1e-6 {
		return 1, 0
	}
	return x / l, y / l
}

// Clamp limits v to [lo, hi]. When hi < lo the result is lo.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Rect is an axis-aligned box with its top-left corner at (X, Y).
type Rect struct {
	X, Y, W, H float64
}

// Center returns the midpoint of the box.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W*0.5, r.Y + r.H*0.5
}

// Overlaps reports whether two boxes share interior area. Touching edges do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X &&
		r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Separation returns the smallest displacement that moves r out of o along a
// single axis. The axis with the smaller overlap wins; ties push along y.
// Returns (0, 0) when the boxes do not overlap.
func (r Rect) Separation(o Rect) (float64, float64) {
	if !r.Overlaps(o) {
		return 0, 0
	}
	rcx, rcy := r.Center()
	ocx, ocy := o.Center()
	dx := rcx - ocx
	dy := rcy - ocy
	ox := (r.W*0.5 + o.W*0.5) - math.Abs(dx)
	oy := (r.H*0.5 + o.H*0.5) - math.Abs(dy)
	if ox < oy {
		if dx < 0 {
			return -ox, 0
		}
		return ox, 0
	}
	if dy < 0 {
		return 0, -oy
	}
	return 0, oy
}
