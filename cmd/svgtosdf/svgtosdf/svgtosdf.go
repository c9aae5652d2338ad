// Package svgtosdf provides the functionality for the
// svgtosdf binary as a library.
package svgtosdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/unixpickle/essentials"

	"github.com/paulhankin/svgtosdf/model"
	"github.com/paulhankin/svgtosdf/palette"
	"github.com/paulhankin/svgtosdf/paths"
	"github.com/paulhankin/svgtosdf/render"
)

// ErrInputNotFound is returned when the input file doesn't exist.
var ErrInputNotFound = errors.New("input file not found")

// Config describes one conversion: the input drawing, where the model
// goes, and the physical properties of the solid.
//
// By default the model directory is written. Single writes the SDF
// document alone to a file, and Stdout prints it instead.
type Config struct {
	In  string
	Out string // output path; see OutPath

	Stdout bool      // print the SDF document instead of writing files
	Writer io.Writer // destination of Stdout output; os.Stdout if nil
	Single bool      // write the SDF document alone to a file

	Mass      float64 // kg
	Thickness float64 // m
	Color     string
	Palette   *palette.Palette // the xkcd palette if nil

	Simplify float64 // tolerance (m) for removing outline points; 0 keeps them all
	Preview  string  // if set, an SVG preview of the outline is written here

	Logger *slog.Logger // slog.Default() if nil
}

// Name returns the model name for an input file: its base name
// without the extension.
func Name(in string) string {
	base := filepath.Base(in)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutPath returns where the model is written: Out if set, otherwise
// the directory Name(In), or the file Name(In)+".sdf" in Single mode.
func (cfg *Config) OutPath() string {
	switch {
	case cfg.Out != "":
		return cfg.Out
	case cfg.Single:
		return Name(cfg.In) + ".sdf"
	}
	return Name(cfg.In)
}

func (cfg *Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

func readDocument(fn string) (*paths.Document, error) {
	f, err := os.Open(fn)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, fn)
		}
		return nil, err
	}
	defer f.Close()
	return paths.ReadDocument(f)
}

// Build reads the input document and computes the model, without
// writing anything.
func Build(cfg *Config) (model.Context, error) {
	if cfg.In == "" {
		return model.Context{}, fmt.Errorf("input file must be specified")
	}
	if cfg.Simplify < 0 {
		return model.Context{}, fmt.Errorf("%w: simplify tolerance %g is negative", model.ErrInvalidParameter, cfg.Simplify)
	}
	if cfg.Stdout && cfg.Single {
		return model.Context{}, fmt.Errorf("%w: Stdout and Single are exclusive", model.ErrInvalidParameter)
	}
	log := cfg.logger().With("input", cfg.In)

	doc, err := readDocument(cfg.In)
	if err != nil {
		return model.Context{}, fmt.Errorf("reading document: %w", err)
	}
	log.Debug("read document", "width", doc.Width, "height", doc.Height, "viewBox", doc.ViewBox)

	outline, err := doc.Outline()
	if err != nil {
		return model.Context{}, fmt.Errorf("decoding outline: %w", err)
	}
	if cfg.Simplify > 0 {
		n := len(outline.V)
		outline.Simplify(cfg.Simplify)
		// a closed polygon needs three corners
		if n >= 4 && len(outline.V) < 4 {
			return model.Context{}, fmt.Errorf("%w: simplify tolerance %g leaves %d of %d outline points", model.ErrInvalidParameter, cfg.Simplify, len(outline.V), n)
		}
		outline.Center()
		log.Debug("simplified outline", "before", n, "after", len(outline.V))
	}
	sz := outline.Bounds().Size()
	log.Debug("decoded outline", "points", len(outline.V), "width", sz[0], "depth", sz[1])

	pal := cfg.Palette
	if pal == nil {
		if pal, err = palette.XKCD(); err != nil {
			return model.Context{}, fmt.Errorf("loading palette: %w", err)
		}
	}
	color, err := pal.Lookup(cfg.Color)
	if err != nil {
		return model.Context{}, fmt.Errorf("looking up color: %w", err)
	}

	ctx, err := model.New(Name(cfg.In), outline, cfg.Mass, cfg.Thickness, color)
	if err != nil {
		return model.Context{}, fmt.Errorf("computing model: %w", err)
	}
	log.Debug("estimated inertia", "ixx", ctx.Inertia.IXX, "iyy", ctx.Inertia.IYY, "izz", ctx.Inertia.IZZ)
	return ctx, nil
}

// Convert converts one SVG file into a model. Nothing is written if
// reading or computing the model fails. The preview is written last.
func Convert(cfg *Config) error {
	ctx, err := Build(cfg)
	if err != nil {
		return err
	}
	log := cfg.logger().With("input", cfg.In)

	if cfg.Stdout {
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		var b bytes.Buffer
		if err := render.SDF(&b, ctx); err != nil {
			return fmt.Errorf("%w: %v", render.ErrOutputWrite, err)
		}
		if _, err := w.Write(b.Bytes()); err != nil {
			return fmt.Errorf("%w: %v", render.ErrOutputWrite, err)
		}
	} else if cfg.Single {
		out := cfg.OutPath()
		if err := render.WriteFile(out, ctx); err != nil {
			return err
		}
		log.Info("wrote model", "file", out, "points", len(ctx.Points), "mass", ctx.Mass)
	} else {
		out := cfg.OutPath()
		if err := render.WriteDir(out, ctx); err != nil {
			return err
		}
		log.Info("wrote model", "dir", out, "points", len(ctx.Points), "mass", ctx.Mass)
	}

	if cfg.Preview != "" {
		if err := writePreview(cfg.Preview, paths.Path{V: ctx.Points}); err != nil {
			return fmt.Errorf("%w: preview: %v", render.ErrOutputWrite, err)
		}
		log.Info("wrote preview", "file", cfg.Preview)
	}
	return nil
}

func writePreview(fn string, p paths.Path) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := p.SVG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ConvertAll runs the conversions in parallel on the given number of
// goroutines (0 means one per CPU). Every conversion runs even if
// others fail; the returned error joins all the failures.
//
// The configs must not print to a shared Writer. Two configs writing
// to the same output path is an error, reported before anything runs.
func ConvertAll(cfgs []*Config, workers int) error {
	seen := map[string]string{}
	for _, cfg := range cfgs {
		if cfg.Stdout {
			continue
		}
		out := filepath.Clean(cfg.OutPath())
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, cfg.In, out)
		}
		seen[out] = cfg.In
	}

	errs := make([]error, len(cfgs))
	essentials.ConcurrentMap(workers, len(cfgs), func(i int) {
		if err := Convert(cfgs[i]); err != nil {
			errs[i] = fmt.Errorf("%s: %w", cfgs[i].In, err)
		}
	})
	return errors.Join(errs...)
}
