// Package render writes models as SDF files, using the templates
// in the templates directory.
package render

import (
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/paulhankin/svgtosdf/model"
	"github.com/paulhankin/svgtosdf/palette"
)

// ErrOutputWrite is returned when the output files can't be written.
var ErrOutputWrite = errors.New("failed to write output")

// Names of the files written by WriteDir.
const (
	SDFFile    = "model.sdf"
	ConfigFile = "model.config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// num formats floats in their shortest exact form, so that rendering
// is deterministic and loses nothing.
func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func xmlEscape(s string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

func rgba(c palette.RGB) string {
	return fmt.Sprintf("%s %s %s 1", num(c.R), num(c.G), num(c.B))
}

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"num":  num,
	"xml":  xmlEscape,
	"rgba": rgba,
	"half": func(f float64) float64 { return f / 2 },
}).ParseFS(templateFS, "templates/*.tmpl"))

// SDF writes the SDF description of the model to w.
func SDF(w io.Writer, ctx model.Context) error {
	return templates.ExecuteTemplate(w, SDFFile+".tmpl", ctx)
}

// Config writes the model manifest to w.
func Config(w io.Writer, ctx model.Context) error {
	return templates.ExecuteTemplate(w, ConfigFile+".tmpl", ctx)
}

// WriteDir writes the SDF description and the manifest of the model into
// dir, creating it if necessary. Existing files are replaced.
//
// Both files are rendered and written to temporary files before either
// is moved into place. Replaced files are kept aside until both new
// files are in place and restored on failure, so an error leaves the
// directory as it was.
func WriteDir(dir string, ctx model.Context) error {
	files := []struct {
		name   string
		render func(io.Writer, model.Context) error
		buf    bytes.Buffer
		tmp    string
		bak    string // the replaced file, while the commit is in progress
		done   bool   // the new file is in place
	}{
		{name: SDFFile, render: SDF},
		{name: ConfigFile, render: Config},
	}
	for i := range files {
		f := &files[i]
		if err := f.render(&f.buf, ctx); err != nil {
			return fmt.Errorf("%w: rendering %s: %v", ErrOutputWrite, f.name, err)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	for _, f := range files {
		fi, err := os.Lstat(filepath.Join(dir, f.name))
		if err == nil && !fi.Mode().IsRegular() {
			return fmt.Errorf("%w: %s exists and is not a regular file", ErrOutputWrite, filepath.Join(dir, f.name))
		}
	}

	// rollback undoes the commit in reverse order and removes the
	// temporary files.
	rollback := func() {
		for i := len(files) - 1; i >= 0; i-- {
			f := &files[i]
			target := filepath.Join(dir, f.name)
			if f.done {
				os.Remove(target)
			}
			if f.bak != "" {
				rename(f.bak, target)
			}
			if f.tmp != "" {
				os.Remove(f.tmp)
			}
		}
	}
	for i := range files {
		f := &files[i]
		tmp, err := writeTemp(dir, f.name, f.buf.Bytes())
		if err != nil {
			rollback()
			return fmt.Errorf("%w: %v", ErrOutputWrite, err)
		}
		f.tmp = tmp
	}
	for i := range files {
		f := &files[i]
		target := filepath.Join(dir, f.name)
		if _, err := os.Lstat(target); err == nil {
			bak := f.tmp + ".old"
			if err := rename(target, bak); err != nil {
				rollback()
				return fmt.Errorf("%w: %v", ErrOutputWrite, err)
			}
			f.bak = bak
		}
		if err := rename(f.tmp, target); err != nil {
			rollback()
			return fmt.Errorf("%w: %v", ErrOutputWrite, err)
		}
		f.tmp = ""
		f.done = true
	}
	for _, f := range files {
		if f.bak != "" {
			os.Remove(f.bak)
		}
	}
	return nil
}

// WriteFile writes the SDF description alone to the file fn, replacing
// it if it exists. The document is written to a temporary file in the
// same directory first, so fn is either the old or the new file.
func WriteFile(fn string, ctx model.Context) error {
	var b bytes.Buffer
	if err := SDF(&b, ctx); err != nil {
		return fmt.Errorf("%w: rendering %s: %v", ErrOutputWrite, fn, err)
	}
	if fi, err := os.Lstat(fn); err == nil && !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: %s exists and is not a regular file", ErrOutputWrite, fn)
	}
	tmp, err := writeTemp(filepath.Dir(fn), filepath.Base(fn), b.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	if err := rename(tmp, fn); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	return nil
}

// rename is os.Rename, replaced in tests.
var rename = os.Rename

func writeTemp(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", err
	}
	_, err = f.Write(data)
	if err == nil {
		err = f.Chmod(0644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
