package paths

import (
	"math"
)

// vec2segdist returns the distance from v to the segment s-e.
func vec2segdist(v, s, e Vec2) float64 {
	d := Vec2{e[0] - s[0], e[1] - s[1]}
	l2 := d[0]*d[0] + d[1]*d[1]
	if l2 == 0 {
		return vec2dist(v, s)
	}
	t := ((v[0]-s[0])*d[0] + (v[1]-s[1])*d[1]) / l2
	t = math.Max(0, math.Min(1, t))
	return vec2dist(v, Vec2{s[0] + t*d[0], s[1] + t*d[1]})
}

func simplifyPath(v []Vec2, tol float64) []Vec2 {
	if len(v) <= 2 {
		return append([]Vec2(nil), v...)
	}
	worst := 0
	worstD := 0.0
	for i := 1; i < len(v)-1; i++ {
		d := vec2segdist(v[i], v[0], v[len(v)-1])
		if d > worstD {
			worst = i
			worstD = d
		}
	}
	if worstD <= tol {
		return []Vec2{v[0], v[len(v)-1]}
	}
	lefts := simplifyPath(v[:worst+1], tol)
	rights := simplifyPath(v[worst:], tol)
	return append(lefts, rights[1:]...)
}

// Simplify removes points from the path, with the guarantee that
// all removed points are within the given tolerance (distance)
// from the new path. The ends of the path are always kept.
//
// A closed path is split at the point farthest from its start, and
// both halves are simplified separately, so that it stays closed.
func (p *Path) Simplify(tol float64) {
	if len(p.V) < 3 {
		return
	}
	if !p.Closed() {
		p.V = simplifyPath(p.V, tol)
		return
	}
	far := 0
	farD := 0.0
	for i, v := range p.V {
		if d := vec2dist(v, p.V[0]); d > farD {
			far = i
			farD = d
		}
	}
	if far == 0 {
		// every point coincides with the start
		p.V = []Vec2{p.V[0], p.V[0]}
		return
	}
	lefts := simplifyPath(p.V[:far+1], tol)
	rights := simplifyPath(p.V[far:], tol)
	p.V = append(lefts, rights[1:]...)
}
