package paths

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrPathData is returned for path data this package can't decode.
	ErrPathData = errors.New("bad path data")

	// ErrEmptyPath is returned for path data without any coordinates.
	// It wraps ErrPathData.
	ErrEmptyPath = fmt.Errorf("%w: no coordinates", ErrPathData)
)

// PathData is the decoded coordinate list of a single sub-path.
//
// When Absolute is false (the "m" command), V[0] is a starting
// position and each following entry is a displacement from the
// previous point. When Absolute is true (the "M" command) every
// entry is a position.
type PathData struct {
	Absolute bool
	V        []Vec2
}

// ParsePathData parses the "d" attribute of a polygon path.
//
// The accepted grammar is a small subset of SVG path data:
//
//	data    := cmd payload [close]
//	cmd     := "m" | "M"
//	close   := "z" | "Z"
//	payload := token (" " token)*
//	token   := float "," float
//
// Commands may be attached to the adjacent token ("m10,20" or "0,5z").
// Curves, other commands and multiple sub-paths are rejected.
func ParsePathData(d string) (PathData, error) {
	fields := strings.Fields(d)
	if len(fields) == 0 {
		return PathData{}, ErrEmptyPath
	}
	var pd PathData
	switch fields[0][0] {
	case 'm':
	case 'M':
		pd.Absolute = true
	default:
		return PathData{}, fmt.Errorf("%w: must start with m or M, got %q", ErrPathData, fields[0])
	}
	if fields[0] = fields[0][1:]; fields[0] == "" {
		fields = fields[1:]
	}
	if n := len(fields); n > 0 {
		last := fields[n-1]
		if strings.HasSuffix(last, "z") || strings.HasSuffix(last, "Z") {
			if fields[n-1] = last[:len(last)-1]; fields[n-1] == "" {
				fields = fields[:n-1]
			}
		}
	}
	if len(fields) == 0 {
		return PathData{}, ErrEmptyPath
	}
	for i, f := range fields {
		v, err := parseToken(f)
		if err != nil {
			return PathData{}, fmt.Errorf("%w: token %d: %v", ErrPathData, i+1, err)
		}
		pd.V = append(pd.V, v)
	}
	return pd, nil
}

func parseToken(t string) (Vec2, error) {
	parts := strings.Split(t, ",")
	if len(parts) != 2 {
		return Vec2{}, fmt.Errorf("%q: want x,y", t)
	}
	fa, err := parseFloats(parts)
	if err != nil {
		return Vec2{}, fmt.Errorf("%q: %v", t, err)
	}
	return Vec2{fa[0], fa[1]}, nil
}

func parseFloats(a []string) ([]float64, error) {
	var r []float64
	for _, x := range a {
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%q is not a finite number", x)
		}
		r = append(r, f)
	}
	return r, nil
}

// Accumulate turns path data into absolute points, multiplying every
// coordinate (and every displacement) by scale.
func Accumulate(pd PathData, scale Vec2) Path {
	p := Path{V: make([]Vec2, 0, len(pd.V)+1)}
	for i, v := range pd.V {
		sv := Vec2{v[0] * scale[0], v[1] * scale[1]}
		if i > 0 && !pd.Absolute {
			sv = vec2AddVec2(p.V[i-1], sv)
		}
		p.V = append(p.V, sv)
	}
	return p
}

// Decode parses path data given in viewport units and returns the
// outline in world units, scaled so that the viewport spans size.
// A zero viewport is the unit square, and a zero size component is 1.
//
// The result is centered: the center of its bounds is the origin.
// The y axis is flipped, so that y grows upwards. The result is always
// closed; the first point is repeated at the end if necessary.
func Decode(d string, vp Viewport, size Vec2) (Path, error) {
	pd, err := ParsePathData(d)
	if err != nil {
		return Path{}, err
	}
	scale, err := vp.Scale(size)
	if err != nil {
		return Path{}, err
	}
	p := Accumulate(pd, scale)
	p.Center()
	p.FlipY()
	p.Close()
	return p, nil
}
