// Package palette maps color names to RGB values.
//
// A Palette is loaded once and is read-only afterwards, so a single
// Palette can be shared by any number of concurrent conversions.
package palette

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned by Lookup for names not in the palette.
var ErrUnknownColor = errors.New("unknown color")

// RGB is a color with each channel in [0, 1].
type RGB struct {
	R, G, B float64
}

// Scale multiplies every channel by s.
func (c RGB) Scale(s float64) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// Palette is a read-only table of named colors.
type Palette struct {
	colors map[string]RGB
}

// normalize turns a color name into its key: spaces become underscores.
func normalize(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// Lookup returns the color with the given name. Names may be written
// with spaces or underscores ("light blue" or "light_blue").
func (p *Palette) Lookup(name string) (RGB, error) {
	c, ok := p.colors[normalize(name)]
	if !ok {
		return RGB{}, fmt.Errorf("%w %q", ErrUnknownColor, name)
	}
	return c, nil
}

// Names returns the sorted names of the palette's colors.
func (p *Palette) Names() []string {
	names := make([]string, 0, len(p.colors))
	for n := range p.colors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.colors)
}

// parseHex parses a color written as #RRGGBB.
func parseHex(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("color %q: want #RRGGBB", s)
	}
	var ch [3]float64
	for i := range ch {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("color %q: %v", s, err)
		}
		ch[i] = float64(v) / 255
	}
	return RGB{ch[0], ch[1], ch[2]}, nil
}

// Load reads a palette with one color per line, written as
// <name> TAB <#RRGGBB> with any further tab-separated fields ignored.
// Lines starting with # and blank lines are skipped. Spaces in
// names are replaced with underscores.
func Load(r io.Reader) (*Palette, error) {
	p := &Palette{colors: map[string]RGB{}}
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimRight(s.Text(), "\r")
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("palette line %d: want name<TAB>#RRGGBB, got %q", line, text)
		}
		c, err := parseHex(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("palette line %d: %v", line, err)
		}
		p.colors[normalize(fields[0])] = c
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

//go:embed xkcd_colors.txt
var xkcdColors []byte

var (
	xkcdOnce sync.Once
	xkcd     *Palette
	xkcdErr  error
)

// XKCD returns the bundled palette of xkcd color survey names.
// It's loaded on first use and shared afterwards.
func XKCD() (*Palette, error) {
	xkcdOnce.Do(func() {
		xkcd, xkcdErr = Load(bytes.NewReader(xkcdColors))
	})
	return xkcd, xkcdErr
}

// CSS returns a palette of the SVG 1.1 / CSS color keywords.
func CSS() *Palette {
	p := &Palette{colors: make(map[string]RGB, len(colornames.Map))}
	for name, c := range colornames.Map {
		p.colors[name] = RGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
	}
	return p
}

// Open returns the named palette: "xkcd" (the default when name is
// empty), "css", or otherwise the palette file at that path.
func Open(name string) (*Palette, error) {
	switch name {
	case "", "xkcd":
		return XKCD()
	case "css":
		return CSS(), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}
