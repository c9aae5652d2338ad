// Package paths provides the 2d geometry of a single shape outline:
// reading it out of an SVG document, scaling it from viewport units
// to world units (meters) and centering it on the origin.
package paths

import "math"

// Vec2 is a 2-dimensional vector.
type Vec2 [2]float64

// A Path is a contiguous series of line segments, from the
// first point in the V slice to the last.
type Path struct {
	V []Vec2
}

// Bounds describes an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec2
}

// Size returns the extent of the bounds along each axis.
func (b Bounds) Size() Vec2 {
	return Vec2{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]}
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Vec2 {
	return Vec2{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2}
}

// Bounds returns the tightest bounds containing every point of the path.
// If the path has no points, the bounds are zero.
func (p Path) Bounds() Bounds {
	if len(p.V) == 0 {
		return Bounds{}
	}
	inf := math.Inf(1)
	min := Vec2{inf, inf}
	max := Vec2{-inf, -inf}
	for _, v := range p.V {
		min[0] = math.Min(min[0], v[0])
		min[1] = math.Min(min[1], v[1])
		max[0] = math.Max(max[0], v[0])
		max[1] = math.Max(max[1], v[1])
	}
	return Bounds{
		Min: min,
		Max: max,
	}
}

// Translate moves every point of the path by the given amount.
func (p *Path) Translate(dx Vec2) {
	for i, v := range p.V {
		p.V[i] = vec2AddVec2(v, dx)
	}
}

// Center translates the path so that the center of its bounds
// is at the origin.
func (p *Path) Center() {
	c := p.Bounds().Center()
	p.Translate(Vec2{-c[0], -c[1]})
}

// FlipY mirrors the path about the x axis. It converts between image
// coordinates (y grows downwards) and world coordinates (y grows upwards).
func (p *Path) FlipY() {
	for i, v := range p.V {
		y := -v[1]
		if y == 0 {
			y = 0 // no negative zero
		}
		p.V[i] = Vec2{v[0], y}
	}
}

// Closed reports whether the last point of the path coincides with the first.
func (p Path) Closed() bool {
	return len(p.V) > 0 && p.V[0] == p.V[len(p.V)-1]
}

// Close appends the first point to the end of the path, unless the
// path is empty or already closed.
func (p *Path) Close() {
	if len(p.V) == 0 || p.Closed() {
		return
	}
	p.V = append(p.V, p.V[0])
}

func vec2AddVec2(a, b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func vec2dist(v0, v1 Vec2) float64 {
	dx := v0[0] - v1[0]
	dy := v0[1] - v1[1]
	return math.Sqrt(dx*dx + dy*dy)
}
