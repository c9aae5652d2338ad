package paths

import (
	"fmt"
	"strings"
)

// Viewport is the rectangle of the source coordinate space, as given
// by an SVG viewBox read as "minX minY maxX maxY".
// The zero Viewport stands for the unit square.
type Viewport struct {
	Min, Max Vec2
}

// UnitViewport is the viewport used when a document has no viewBox.
var UnitViewport = Viewport{Max: Vec2{1, 1}}

// ParseViewBox parses four numbers separated by spaces and/or commas.
func ParseViewBox(s string) (Viewport, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(parts) != 4 {
		return Viewport{}, fmt.Errorf("%w: viewBox %q should have 4 numbers", ErrDocument, s)
	}
	fa, err := parseFloats(parts)
	if err != nil {
		return Viewport{}, fmt.Errorf("%w: viewBox %q: %v", ErrDocument, s, err)
	}
	return Viewport{
		Min: Vec2{fa[0], fa[1]},
		Max: Vec2{fa[2], fa[3]},
	}, nil
}

// Scale returns the per-axis factors that map viewport units onto a
// world rectangle of the given size. The factors differ when the
// viewport and the size don't have the same aspect ratio.
func (vp Viewport) Scale(size Vec2) (Vec2, error) {
	if vp == (Viewport{}) {
		vp = UnitViewport
	}
	for i := range size {
		if size[i] == 0 {
			size[i] = 1
		}
	}
	w := vp.Max[0] - vp.Min[0]
	h := vp.Max[1] - vp.Min[1]
	if !(w > 0) || !(h > 0) {
		return Vec2{}, fmt.Errorf("%w: viewport %v has no area", ErrDocument, vp)
	}
	return Vec2{size[0] / w, size[1] / h}, nil
}
