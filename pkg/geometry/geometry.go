// Package geometry defines the shared value types for stowplan: container
// envelopes, item specifications, packed-item records, and resolved
// placements.
//
// All types are plain values, freshly constructed per planning pass from
// externally supplied snapshots. Nothing in this package holds state
// between passes. Coordinates follow the container-local convention used
// everywhere in stowplan: X runs along the container length, Y along the
// height, Z along the width, with the origin at the container's minimum
// corner.
package geometry

import "github.com/boxlogic/stowplan/pkg/units"

// Fallback container dimensions, applied when a spec arrives with a zero
// or negative extent so that scene scaling never divides by zero.
const (
	DefaultLength = 2.0
	DefaultWidth  = 1.5
	DefaultHeight = 1.5
)

// dimEpsilon is the threshold below which a container dimension counts as
// missing and is replaced with its fallback.
const dimEpsilon = 1e-9

// Vec3 is a point or offset in container-local coordinates, in meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Dimensions is the axis-aligned size of a box, in meters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Volume returns length * width * height.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// HalfExtents returns half of each dimension mapped onto the coordinate
// axes (length on X, height on Y, width on Z).
func (d Dimensions) HalfExtents() Vec3 {
	return Vec3{X: d.Length / 2, Y: d.Height / 2, Z: d.Width / 2}
}

// FitStrategy selects how the remote packing service orders items.
// It is advisory: the interpreter and fallback packer ignore it.
type FitStrategy string

const (
	// FitFirst packs items in input order.
	FitFirst FitStrategy = "first_fit"
	// FitBest packs larger items first.
	FitBest FitStrategy = "best_fit"
)

// ContainerSpec describes the loading container as entered by the user.
// Dimensions are expressed in Unit until Normalized is called.
type ContainerSpec struct {
	Length      float64     `json:"length" toml:"length"`
	Width       float64     `json:"width" toml:"width"`
	Height      float64     `json:"height" toml:"height"`
	Unit        string      `json:"unit,omitempty" toml:"unit"`
	MaxCapacity float64     `json:"max_capacity,omitempty" toml:"max_capacity"` // advisory weight bound
	FitStrategy FitStrategy `json:"fit_strategy,omitempty" toml:"fit_strategy"` // advisory
}

// Normalized returns a copy with all dimensions converted to meters and
// zero or negative extents replaced by the package defaults. The result
// always has strictly positive dimensions.
func (c ContainerSpec) Normalized() ContainerSpec {
	u := units.Parse(c.Unit)
	out := c
	out.Unit = string(units.Meters)
	out.Length = fallback(u.ToMeters(c.Length), DefaultLength)
	out.Width = fallback(u.ToMeters(c.Width), DefaultWidth)
	out.Height = fallback(u.ToMeters(c.Height), DefaultHeight)
	return out
}

// Dimensions returns the container extents as a Dimensions value.
func (c ContainerSpec) Dimensions() Dimensions {
	return Dimensions{Length: c.Length, Width: c.Width, Height: c.Height}
}

func fallback(v, def float64) float64 {
	if v < dimEpsilon {
		return def
	}
	return v
}

// ItemSpec describes one kind of box to load, as entered by the user.
// The RotationAllowed flag is carried through verbatim for the remote
// packing service; neither the interpreter nor the fallback packer
// consults it.
type ItemSpec struct {
	Name            string  `json:"name" toml:"name"`
	Length          float64 `json:"length" toml:"length"`
	Width           float64 `json:"width" toml:"width"`
	Height          float64 `json:"height" toml:"height"`
	Weight          float64 `json:"weight,omitempty" toml:"weight"`
	Quantity        int     `json:"quantity" toml:"quantity"`
	Unit            string  `json:"unit,omitempty" toml:"unit"`
	RotationAllowed bool    `json:"rotation_allowed,omitempty" toml:"rotation_allowed"`
}

// Normalized returns a copy with dimensions in meters, negative values
// coerced to zero, and Quantity raised to at least 1.
func (it ItemSpec) Normalized() ItemSpec {
	u := units.Parse(it.Unit)
	out := it
	out.Unit = string(units.Meters)
	out.Length = nonNegative(u.ToMeters(it.Length))
	out.Width = nonNegative(u.ToMeters(it.Width))
	out.Height = nonNegative(u.ToMeters(it.Height))
	out.Weight = nonNegative(it.Weight)
	out.Quantity = max(it.Quantity, 1)
	return out
}

// Dimensions returns the per-unit extents as a Dimensions value.
func (it ItemSpec) Dimensions() Dimensions {
	return Dimensions{Length: it.Length, Width: it.Width, Height: it.Height}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Placement is a resolved per-item record: the box's minimum corner in
// container-local coordinates plus its dimensions. Placements are what
// the interpreter and the fallback packer both produce, and what the
// scene mapper consumes.
type Placement struct {
	Name       string     `json:"name"`
	MinCorner  Vec3       `json:"min_corner"`
	Dimensions Dimensions `json:"dimensions"`
}

// MaxCorner returns the opposite corner of the placement's bounding box.
func (p Placement) MaxCorner() Vec3 {
	return Vec3{
		X: p.MinCorner.X + p.Dimensions.Length,
		Y: p.MinCorner.Y + p.Dimensions.Height,
		Z: p.MinCorner.Z + p.Dimensions.Width,
	}
}
