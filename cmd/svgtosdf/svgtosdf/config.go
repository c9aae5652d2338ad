package svgtosdf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// FileConfig holds the conversion settings that can be given in
// a YAML file, so that a set of drawings can share them.
type FileConfig struct {
	Mass      float64 `yaml:"mass"`
	Thickness float64 `yaml:"thickness"`
	Color     string  `yaml:"color"`
	Palette   string  `yaml:"palette"` // "xkcd", "css" or a palette file
	Simplify  float64 `yaml:"simplify"`
	Workers   int     `yaml:"workers"`
}

// DefaultFileConfig returns the settings used when nothing else is given.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Mass:      1.0,
		Thickness: 0.01,
		Color:     "grey",
		Palette:   "xkcd",
	}
}

// LoadFileConfig reads settings from a YAML file. Settings missing from
// the file keep their default values; unknown settings are an error.
func LoadFileConfig(fn string) (FileConfig, error) {
	fc := DefaultFileConfig()
	b, err := os.ReadFile(fn)
	if err != nil {
		return fc, err
	}
	if err := yaml.UnmarshalStrict(b, &fc); err != nil {
		return fc, fmt.Errorf("%s: %w", fn, err)
	}
	return fc, nil
}
