// Package physics provides canvas geometry and collision detection utilities.
package physics

// Vector2 is a point in canvas space.
type Vector2 struct {
	X, Y float64
}

// Rect is an axis-aligned box. X and Y are the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Overlaps reports whether two rects intersect (AABB test).
// Touching edges do not count as an overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Bounds returns a copy of the rect. Types embedding Rect inherit it.
func (r Rect) Bounds() Rect {
	return r
}

// Center returns the centre point of the rect.
func (r Rect) Center() Vector2 {
	return Vector2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// ClampInto moves the rect so that it lies fully inside a width x height area
// anchored at the origin. Rects larger than the area are pinned to the origin.
func (r *Rect) ClampInto(width, height float64) {
	r.X = Clamp(r.X, 0, width-r.W)
	r.Y = Clamp(r.Y, 0, height-r.H)
}

// Clamp limits v to [lo, hi]. If hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
