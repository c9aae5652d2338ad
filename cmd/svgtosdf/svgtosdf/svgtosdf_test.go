package svgtosdf

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulhankin/svgtosdf/model"
	"github.com/paulhankin/svgtosdf/palette"
	"github.com/paulhankin/svgtosdf/paths"
	"github.com/paulhankin/svgtosdf/render"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig(t *testing.T, in string) *Config {
	return &Config{
		In:        filepath.Join("testdata", in),
		Out:       filepath.Join(t.TempDir(), Name(in)),
		Mass:      1,
		Thickness: 0.01,
		Color:     "grey",
		Logger:    quiet,
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "plate", Name("testdata/plate.svg"))
	assert.Equal(t, "my.shape", Name("/tmp/my.shape.svg"))
	assert.Equal(t, "noext", Name("noext"))
}

func TestOutPath(t *testing.T) {
	cfg := &Config{In: "drawings/plate.svg"}
	assert.Equal(t, "plate", cfg.OutPath())
	cfg.Single = true
	assert.Equal(t, "plate.sdf", cfg.OutPath())
	cfg.Out = "models/p.sdf"
	assert.Equal(t, "models/p.sdf", cfg.OutPath())
	cfg.Single = false
	cfg.Out = "models/p"
	assert.Equal(t, "models/p", cfg.OutPath())
}

func TestBuild(t *testing.T) {
	ctx, err := Build(testConfig(t, "plate.svg"))
	require.NoError(t, err)
	assert.Equal(t, "plate", ctx.Name)

	p := paths.Path{V: ctx.Points}
	assert.True(t, p.Closed())
	b := p.Bounds()
	assert.InDelta(t, 0.16, b.Size()[0], 1e-12)
	assert.InDelta(t, 0.06, b.Size()[1], 1e-12)
	assert.InDelta(t, 0, b.Center()[0], 1e-12)
	assert.InDelta(t, 0, b.Center()[1], 1e-12)

	// the first point is the top left corner in the drawing.
	assert.InDelta(t, -0.08, ctx.Points[0][0], 1e-12)
	assert.InDelta(t, 0.03, ctx.Points[0][1], 1e-12)

	assert.InDelta(t, (0.0036+0.0001)/12, ctx.Inertia.IXX, 1e-12)
	assert.InDelta(t, (0.0256+0.0001)/12, ctx.Inertia.IYY, 1e-12)
	assert.InDelta(t, (0.0256+0.0036)/12, ctx.Inertia.IZZ, 1e-12)

	grey, err := palette.XKCD()
	require.NoError(t, err)
	want, err := grey.Lookup("grey")
	require.NoError(t, err)
	assert.Equal(t, want, ctx.Material.Diffuse)
}

func TestBuildSimplify(t *testing.T) {
	cfg := testConfig(t, "plate.svg")
	full, err := Build(cfg)
	require.NoError(t, err)

	// drops the bottom edge's middle corner, which is 3cm off the
	// diagonal, and keeps the top right one, which is 5.6cm off.
	cfg.Simplify = 0.04
	simple, err := Build(cfg)
	require.NoError(t, err)
	assert.Less(t, len(simple.Points), len(full.Points))
	assert.Len(t, simple.Points, 4)
	sp := paths.Path{V: simple.Points}
	assert.True(t, sp.Closed())
	b := sp.Bounds()
	assert.InDelta(t, 0, b.Center()[0], 1e-12)
	assert.InDelta(t, 0, b.Center()[1], 1e-12)
	assert.InDelta(t, 0.16, b.Size()[0], 1e-12)
}

func TestBuildSimplifyCollapse(t *testing.T) {
	// a tolerance larger than the shape leaves a line, not a polygon.
	cfg := testConfig(t, "plate.svg")
	cfg.Simplify = 0.5
	_, err := Build(cfg)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		desc   string
		modify func(*Config)
		want   error
	}{
		{"missing input", func(c *Config) { c.In = filepath.Join("testdata", "missing.svg") }, ErrInputNotFound},
		{"curves", func(c *Config) { c.In = filepath.Join("testdata", "curve.svg") }, paths.ErrPathData},
		{"unknown color", func(c *Config) { c.Color = "no such color" }, palette.ErrUnknownColor},
		{"zero mass", func(c *Config) { c.Mass = 0 }, model.ErrInvalidParameter},
		{"negative thickness", func(c *Config) { c.Thickness = -1 }, model.ErrInvalidParameter},
		{"negative simplify", func(c *Config) { c.Simplify = -1 }, model.ErrInvalidParameter},
		{"stdout and single", func(c *Config) { c.Stdout = true; c.Single = true }, model.ErrInvalidParameter},
		{"css palette has no xkcd names", func(c *Config) { c.Palette = palette.CSS(); c.Color = "light_blue" }, palette.ErrUnknownColor},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			cfg := testConfig(t, "plate.svg")
			c.modify(cfg)
			_, err := Build(cfg)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestConvert(t *testing.T) {
	cfg := testConfig(t, "plate.svg")
	require.NoError(t, Convert(cfg))

	sdf, err := os.ReadFile(filepath.Join(cfg.Out, render.SDFFile))
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(sdf))
	m := doc.FindElement("./sdf/model")
	require.NotNil(t, m)
	assert.Equal(t, "plate", m.SelectAttrValue("name", ""))

	_, err = os.Stat(filepath.Join(cfg.Out, render.ConfigFile))
	assert.NoError(t, err)

	// converting again gives byte-identical output.
	require.NoError(t, Convert(cfg))
	again, err := os.ReadFile(filepath.Join(cfg.Out, render.SDFFile))
	require.NoError(t, err)
	assert.Equal(t, sdf, again)
}

func TestConvertStdout(t *testing.T) {
	var b bytes.Buffer
	cfg := testConfig(t, "plate.svg")
	cfg.Stdout = true
	cfg.Writer = &b
	require.NoError(t, Convert(cfg))
	assert.True(t, strings.HasPrefix(b.String(), "<?xml"), b.String())
	assert.Contains(t, b.String(), `<model name="plate">`)

	// nothing is written to disk.
	_, err := os.Stat(cfg.Out)
	assert.True(t, os.IsNotExist(err))
}

func TestConvertSingle(t *testing.T) {
	cfg := testConfig(t, "plate.svg")
	cfg.Single = true
	cfg.Out = filepath.Join(t.TempDir(), "plate.sdf")
	require.NoError(t, Convert(cfg))

	b, err := os.ReadFile(cfg.Out)
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(b))
	m := doc.FindElement("./sdf/model")
	require.NotNil(t, m)
	assert.Equal(t, "plate", m.SelectAttrValue("name", ""))

	// the same document as the one printed with Stdout.
	var printed bytes.Buffer
	pcfg := testConfig(t, "plate.svg")
	pcfg.Stdout = true
	pcfg.Writer = &printed
	require.NoError(t, Convert(pcfg))
	assert.Equal(t, printed.String(), string(b))

	entries, err := os.ReadDir(filepath.Dir(cfg.Out))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConvertUnknownColorWritesNothing(t *testing.T) {
	cfg := testConfig(t, "plate.svg")
	cfg.Color = "no such color"
	cfg.Preview = filepath.Join(t.TempDir(), "preview.svg")
	err := Convert(cfg)
	assert.ErrorIs(t, err, palette.ErrUnknownColor)
	_, err = os.Stat(cfg.Out)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(cfg.Preview)
	assert.True(t, os.IsNotExist(err))
}

func TestConvertPreview(t *testing.T) {
	cfg := testConfig(t, "plate.svg")
	cfg.Preview = filepath.Join(t.TempDir(), "preview.svg")
	require.NoError(t, Convert(cfg))

	f, err := os.Open(cfg.Preview)
	require.NoError(t, err)
	defer f.Close()
	doc, err := paths.ReadDocument(f)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(doc.Width, "mm"), doc.Width)
	w, err := strconv.ParseFloat(strings.TrimSuffix(doc.Width, "mm"), 64)
	require.NoError(t, err)
	assert.InDelta(t, 160, w, 1e-9)
	pd, err := paths.ParsePathData(doc.PathData)
	require.NoError(t, err)
	assert.True(t, pd.Absolute)
}

func TestConvertAll(t *testing.T) {
	dir := t.TempDir()
	var cfgs []*Config
	for _, name := range []string{"a", "b", "c", "d"} {
		cfg := testConfig(t, "plate.svg")
		cfg.Out = filepath.Join(dir, name)
		cfgs = append(cfgs, cfg)
	}
	bad := testConfig(t, "curve.svg")
	cfgs = append(cfgs, bad)

	err := ConvertAll(cfgs, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, paths.ErrPathData)
	assert.Contains(t, err.Error(), "curve.svg")

	var first []byte
	for _, cfg := range cfgs[:4] {
		b, err := os.ReadFile(filepath.Join(cfg.Out, render.SDFFile))
		require.NoError(t, err)
		if first == nil {
			first = b
		}
		assert.Equal(t, first, b)
	}
	_, err = os.Stat(bad.Out)
	assert.True(t, os.IsNotExist(err))
}

func TestConvertAllSameOutput(t *testing.T) {
	a := testConfig(t, "plate.svg")
	b := testConfig(t, "plate.svg")
	b.Out = a.Out + string(filepath.Separator)
	err := ConvertAll([]*Config{a, b}, 0)
	assert.Error(t, err)
	_, statErr := os.Stat(a.Out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadFileConfig(t *testing.T) {
	fc, err := LoadFileConfig(filepath.Join("testdata", "settings.yaml"))
	require.NoError(t, err)
	want := DefaultFileConfig()
	want.Mass = 2.5
	want.Thickness = 0.02
	want.Color = "light blue"
	assert.Equal(t, want, fc)

	fn := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("mass: 1\ndensity: 3\n"), 0644))
	_, err = LoadFileConfig(fn)
	assert.Error(t, err, "unknown settings must be rejected")

	_, err = LoadFileConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
