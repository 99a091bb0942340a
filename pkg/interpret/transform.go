// Package interpret recovers the geometric meaning of packed-item
// positions produced by the remote packing service.
//
// The service's coordinate convention is not contractually fixed: raw
// positions may describe a box's minimum corner or its centroid, and the
// length/width axes may arrive swapped. Rather than trusting a schema,
// this package tests a fixed, ordered set of candidate readings against
// physical plausibility (full containment in the container envelope) and
// selects the first one that validates. When none do, it falls back to
// the natural min-corner reading with per-axis clamping, reporting the
// condition as a diagnostic instead of an error.
package interpret

import "github.com/boxlogic/stowplan/pkg/geometry"

// Transform is one candidate geometric reading of a raw position. Apply
// maps the producer's raw components plus the item's own dimensions to
// the box's minimum corner in container-local coordinates. Transforms
// are pure; Apply never mutates its inputs.
type Transform struct {
	Name  string
	Apply func(raw geometry.RawPosition, dims geometry.Dimensions) geometry.Vec3
}

// Candidate transform names, in evaluation order.
const (
	MinCorner        = "min-corner"
	Center           = "center"
	MinCornerSwapped = "min-corner-swapped"
	CenterSwapped    = "center-swapped"
)

// Candidates returns the four candidate transforms in their fixed
// evaluation order. The order doubles as the tie-break rule: the first
// candidate under which every item is contained wins.
func Candidates() []Transform {
	return []Transform{
		{
			// Raw triple read directly as the minimum corner.
			Name: MinCorner,
			Apply: func(raw geometry.RawPosition, _ geometry.Dimensions) geometry.Vec3 {
				return geometry.Vec3{X: raw[0], Y: raw[1], Z: raw[2]}
			},
		},
		{
			// Raw triple read as the centroid.
			Name: Center,
			Apply: func(raw geometry.RawPosition, dims geometry.Dimensions) geometry.Vec3 {
				h := dims.HalfExtents()
				return geometry.Vec3{X: raw[0] - h.X, Y: raw[1] - h.Y, Z: raw[2] - h.Z}
			},
		},
		{
			// Length/width axes exchanged, then read as the minimum corner.
			Name: MinCornerSwapped,
			Apply: func(raw geometry.RawPosition, _ geometry.Dimensions) geometry.Vec3 {
				return geometry.Vec3{X: raw[2], Y: raw[1], Z: raw[0]}
			},
		},
		{
			// Length/width axes exchanged, then centroid-to-corner.
			Name: CenterSwapped,
			Apply: func(raw geometry.RawPosition, dims geometry.Dimensions) geometry.Vec3 {
				h := dims.HalfExtents()
				return geometry.Vec3{X: raw[2] - h.X, Y: raw[1] - h.Y, Z: raw[0] - h.Z}
			},
		},
	}
}
