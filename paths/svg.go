package paths

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/JoshVarga/svgparser"
	"golang.org/x/net/html/charset"
)

// ErrDocument is returned when an SVG document can't be parsed or
// doesn't have the structure of a single-shape drawing.
var ErrDocument = errors.New("unsupported svg document")

// Document holds the attributes of a single-shape SVG document.
type Document struct {
	Width, Height string // lengths with units, such as "10cm"
	ViewBox       string // empty if the document has none
	PathData      string // the "d" attribute of the shape
}

// Viewport parses the document's viewBox, or returns the unit
// viewport if there is none.
func (d *Document) Viewport() (Viewport, error) {
	if d.ViewBox == "" {
		return UnitViewport, nil
	}
	return ParseViewBox(d.ViewBox)
}

// Size returns the width and height of the document in meters.
func (d *Document) Size() (Vec2, error) {
	w, err := ParseLength(d.Width)
	if err != nil {
		return Vec2{}, fmt.Errorf("width: %w", err)
	}
	h, err := ParseLength(d.Height)
	if err != nil {
		return Vec2{}, fmt.Errorf("height: %w", err)
	}
	return Vec2{w, h}, nil
}

// Outline decodes the document's path into world coordinates.
// See Decode.
func (d *Document) Outline() (Path, error) {
	size, err := d.Size()
	if err != nil {
		return Path{}, err
	}
	vp, err := d.Viewport()
	if err != nil {
		return Path{}, err
	}
	return Decode(d.PathData, vp, size)
}

// findPath returns the first path that's a child of a group of the
// root, or failing that, the first path that's a child of the root.
func findPath(root *svgparser.Element) *svgparser.Element {
	for _, c := range root.Children {
		if c.Name != "g" {
			continue
		}
		for _, gc := range c.Children {
			if gc.Name == "path" {
				return gc
			}
		}
	}
	for _, c := range root.Children {
		if c.Name == "path" {
			return c
		}
	}
	return nil
}

// ReadDocument parses an SVG document, extracting its size and the
// data of its single path. Only the first matching path is read.
func ReadDocument(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.CharsetReader = charset.NewReaderLabel
	elt, err := svgparser.DecodeFirst(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocument, err)
	}
	if elt == nil {
		return nil, fmt.Errorf("%w: no root element", ErrDocument)
	}
	if err := elt.Decode(decoder); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrDocument, err)
	}
	if elt.Name != "svg" {
		return nil, fmt.Errorf("%w: root element is %q, not svg", ErrDocument, elt.Name)
	}
	doc := &Document{
		Width:   elt.Attributes["width"],
		Height:  elt.Attributes["height"],
		ViewBox: elt.Attributes["viewBox"],
	}
	if doc.Width == "" || doc.Height == "" {
		return nil, fmt.Errorf("%w: svg element needs width and height", ErrDocument)
	}
	p := findPath(elt)
	if p == nil {
		return nil, fmt.Errorf("%w: no path found", ErrDocument)
	}
	doc.PathData = p.Attributes["d"]
	if doc.PathData == "" {
		return nil, fmt.Errorf("%w: path has no d attribute", ErrDocument)
	}
	return doc, nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

var (
	svgh = `<svg width="%smm" height="%smm" viewBox="%s %s %s %s" version="1.1" xmlns="http://www.w3.org/2000/svg">`
)

// SVG writes an SVG preview of the path, which is in world coordinates
// (meters, y growing upwards). The preview's user unit is the meter
// and its viewBox is the path's bounds in the usual SVG form
// "minX minY width height", so that it displays in any viewer.
// The path is written with absolute coordinates, so ReadDocument and
// ParsePathData recover the points. The preview is not an input for
// Document.Outline: its width and height are fractional millimeters,
// and its viewBox is in the width/height form.
func (p Path) SVG(w io.Writer) error {
	var werr error
	bi := bufio.NewWriter(w)
	wr := func(f string, args ...interface{}) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bi, f, args...)
	}
	img := Path{V: append([]Vec2(nil), p.V...)}
	img.FlipY()
	b := img.Bounds()
	sz := b.Size()
	wr(svgh, fmtFloat(sz[0]*1000), fmtFloat(sz[1]*1000), fmtFloat(b.Min[0]), fmtFloat(b.Min[1]), fmtFloat(sz[0]), fmtFloat(sz[1]))
	wr("\n")
	wr("<g fill=\"none\" stroke=\"black\" stroke-width=\"0.0005\">\n")
	if len(img.V) > 0 {
		wr(`<path d="`)
		for i, v := range img.V {
			if i == 0 {
				wr("M %s,%s", fmtFloat(v[0]), fmtFloat(v[1]))
			} else {
				wr(" %s,%s", fmtFloat(v[0]), fmtFloat(v[1]))
			}
		}
		wr(" z\"/>\n")
	}
	wr("</g>\n")
	wr("</svg>\n")
	if werr == nil {
		werr = bi.Flush()
	}
	return werr
}
