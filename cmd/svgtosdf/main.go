package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulhankin/svgtosdf/cmd/svgtosdf/svgtosdf"
	"github.com/paulhankin/svgtosdf/palette"
	"github.com/paulhankin/svgtosdf/render"
)

// flags
var (
	flagOut     string
	flagStdout  bool
	flagSingle  bool
	flagPreview string
	flagConfig  string
	flagColors  bool

	flagVV, flagV, flagQ bool

	// settings that can also come from the -config file
	settings = svgtosdf.DefaultFileConfig()
)

func init() {
	flag.StringVar(&flagOut, "out", "", "model output directory, or file with -single (default: input name); with several inputs, the parent directory of the models")
	flag.BoolVar(&flagStdout, "stdout", false, "print the SDF document instead of writing a model directory")
	flag.BoolVar(&flagSingle, "single", false, "write the SDF document alone to a file instead of a model directory")
	flag.StringVar(&flagPreview, "preview", "", "if set, write an svg preview of the outline to this file")
	flag.StringVar(&flagConfig, "config", "", "yaml file with default settings")
	flag.BoolVar(&flagColors, "colors", false, "list the palette's color names and exit")

	flag.Float64Var(&settings.Mass, "mass", settings.Mass, "mass of the object (kg)")
	flag.Float64Var(&settings.Thickness, "thickness", settings.Thickness, "thickness of the object (m)")
	flag.Float64Var(&settings.Thickness, "height", settings.Thickness, "alias for -thickness")
	flag.StringVar(&settings.Color, "color", settings.Color, "color name")
	flag.StringVar(&settings.Palette, "palette", settings.Palette, "color palette: xkcd, css, or a palette file")
	flag.Float64Var(&settings.Simplify, "simplify", settings.Simplify, "if set, remove outline points within this distance (m)")
	flag.IntVar(&settings.Workers, "j", settings.Workers, "number of files converted in parallel (0: one per cpu)")

	flag.BoolVar(&flagVV, "vv", false, "debug logging")
	flag.BoolVar(&flagV, "v", false, "verbose logging")
	flag.BoolVar(&flagQ, "q", false, "only log errors")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input.svg [input.svg ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
}

// LevelFromFlags returns the log level for the -vv, -v and -q flags.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// loadSettings reads the -config file, if any, and then applies the
// flags given on the command line on top of it.
func loadSettings() (svgtosdf.FileConfig, error) {
	if flagConfig == "" {
		return settings, nil
	}
	fc, err := svgtosdf.LoadFileConfig(flagConfig)
	if err != nil {
		return fc, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mass":
			fc.Mass = settings.Mass
		case "thickness", "height":
			fc.Thickness = settings.Thickness
		case "color":
			fc.Color = settings.Color
		case "palette":
			fc.Palette = settings.Palette
		case "simplify":
			fc.Simplify = settings.Simplify
		case "j":
			fc.Workers = settings.Workers
		}
	})
	return fc, nil
}

func main() {
	usagef := func(s string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, s+"\n", args...)
		os.Exit(2)
	}
	failf := func(s string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, s+"\n", args...)
		os.Exit(1)
	}

	flag.Parse()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: LevelFromFlags(flagVV, flagV, flagQ),
	}))
	slog.SetDefault(logger)

	fc, err := loadSettings()
	if err != nil {
		usagef("failed to read config: %v", err)
	}
	pal, err := palette.Open(fc.Palette)
	if err != nil {
		usagef("failed to load palette: %v", err)
	}
	if flagColors {
		for _, n := range pal.Names() {
			fmt.Println(n)
		}
		return
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		usagef("must specify an input svg file")
	}
	if len(inputs) > 1 && (flagStdout || flagPreview != "") {
		usagef("-stdout and -preview need a single input file")
	}
	if flagStdout && flagSingle {
		usagef("-stdout and -single can't be used together")
	}
	if flagStdout && flagOut != "" {
		usagef("-stdout prints the document; -out can't be used with it")
	}

	var cfgs []*svgtosdf.Config
	for _, in := range inputs {
		cfg := &svgtosdf.Config{
			In:        in,
			Stdout:    flagStdout,
			Single:    flagSingle,
			Mass:      fc.Mass,
			Thickness: fc.Thickness,
			Color:     fc.Color,
			Palette:   pal,
			Simplify:  fc.Simplify,
			Preview:   flagPreview,
			Logger:    logger,
		}
		if len(inputs) > 1 {
			// each model is named after its input, below -out
			cfg.Out = filepath.Join(flagOut, cfg.OutPath())
		} else {
			cfg.Out = flagOut
		}
		cfgs = append(cfgs, cfg)
	}

	if len(cfgs) == 1 {
		err = svgtosdf.Convert(cfgs[0])
	} else {
		err = svgtosdf.ConvertAll(cfgs, fc.Workers)
	}
	if err != nil {
		failf("svgtosdf: %v", err)
	}
	for _, cfg := range cfgs {
		switch {
		case flagStdout:
		case flagSingle:
			fmt.Printf("%s: wrote %s\n", cfg.In, cfg.OutPath())
		default:
			fmt.Printf("%s: wrote %s and %s in %s\n", cfg.In, render.SDFFile, render.ConfigFile, cfg.OutPath())
		}
	}
}
