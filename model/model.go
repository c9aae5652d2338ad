// Package model computes the physical properties of a shape outline
// extruded into a solid, and gathers everything a model description
// needs into a Context.
package model

import (
	"errors"
	"fmt"

	"github.com/paulhankin/svgtosdf/palette"
	"github.com/paulhankin/svgtosdf/paths"
)

// ErrInvalidParameter is returned for non-physical inputs, such as a
// mass that isn't positive.
var ErrInvalidParameter = errors.New("invalid parameter")

// AmbientFactor is the brightness of the ambient color relative
// to the diffuse color.
const AmbientFactor = 0.1

// Inertia is an inertia tensor, about the center of mass, in kg·m².
// The off-diagonal terms are always zero for the estimates made here.
type Inertia struct {
	IXX, IXY, IXZ float64
	IYY, IYZ      float64
	IZZ           float64
}

// EstimateInertia approximates the inertia of the outline extruded
// along z by thickness, with the given total mass. The solid is treated
// as the rectangular box that bounds it, which overestimates the inertia
// of shapes that don't fill their bounds.
func EstimateInertia(outline paths.Path, mass, thickness float64) (Inertia, error) {
	if len(outline.V) == 0 {
		return Inertia{}, fmt.Errorf("%w: empty outline", ErrInvalidParameter)
	}
	if !(mass > 0) {
		return Inertia{}, fmt.Errorf("%w: mass %g must be positive", ErrInvalidParameter, mass)
	}
	if !(thickness > 0) {
		return Inertia{}, fmt.Errorf("%w: thickness %g must be positive", ErrInvalidParameter, thickness)
	}
	sz := outline.Bounds().Size()
	w, d, h := sz[0], sz[1], thickness
	return Inertia{
		IXX: mass * (d*d + h*h) / 12,
		IYY: mass * (w*w + h*h) / 12,
		IZZ: mass * (w*w + d*d) / 12,
	}, nil
}

// Material is the surface color of the model.
type Material struct {
	Ambient, Diffuse palette.RGB
}

// NewMaterial returns a material with the given diffuse color.
func NewMaterial(diffuse palette.RGB) Material {
	return Material{
		Ambient: diffuse.Scale(AmbientFactor),
		Diffuse: diffuse,
	}
}

// Context holds everything needed to write out a model.
// It's built by New and isn't modified afterwards.
type Context struct {
	Name      string
	Points    []paths.Vec2 // outline in meters, centered on the origin
	Thickness float64      // extrusion along z, in meters
	Mass      float64      // kg
	Inertia   Inertia
	Material  Material
}

// New builds the context of a model with the given outline.
// The outline is copied.
func New(name string, outline paths.Path, mass, thickness float64, color palette.RGB) (Context, error) {
	if name == "" {
		return Context{}, fmt.Errorf("%w: empty model name", ErrInvalidParameter)
	}
	inertia, err := EstimateInertia(outline, mass, thickness)
	if err != nil {
		return Context{}, err
	}
	return Context{
		Name:      name,
		Points:    append([]paths.Vec2(nil), outline.V...),
		Thickness: thickness,
		Mass:      mass,
		Inertia:   inertia,
		Material:  NewMaterial(color),
	}, nil
}
