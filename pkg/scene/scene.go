// Package scene converts resolved min-corner placements into the
// centered, uniformly scaled coordinate frame handed to rendering
// surfaces and export sinks.
//
// The mapping is a pure function of the placements and the container
// envelope. It performs no validation; containment has already been
// judged (or clamped) by pkg/interpret, and the fallback layout from
// pkg/shelf is in-envelope by construction.
package scene

import (
	"github.com/boxlogic/stowplan/pkg/geometry"
	"github.com/boxlogic/stowplan/pkg/interpret"
)

// TargetMax is the display size: after scaling, the container's largest
// dimension spans exactly this many display units.
const TargetMax = 8.0

// Palette is the deterministic item color cycle. Solids are colored by
// input index modulo the palette size.
var Palette = []string{
	"#4e79a7", // blue
	"#f28e2b", // orange
	"#e15759", // red
	"#76b7b2", // teal
	"#59a14f", // green
	"#edc948", // yellow
	"#b07aa1", // purple
	"#ff9da7", // pink
	"#9c755f", // brown
	"#bab0ac", // gray
}

// Solid is one display-ready box: centered position, scaled size, and a
// palette slot.
type Solid struct {
	Name       string              `json:"name"`
	Center     geometry.Vec3       `json:"center"`
	Size       geometry.Dimensions `json:"size"`
	ColorIndex int                 `json:"color_index"`
	Color      string              `json:"color"`
}

// Diagnostics carries the non-fatal conditions observed while producing
// the placements this scene was mapped from.
type Diagnostics struct {
	// UsedFallback is set when no coordinate interpretation validated
	// and clamped positions were used.
	UsedFallback bool `json:"used_fallback"`

	// Interpretation names the chosen (or fallback) reading, empty when
	// the placements came from the shelf packer.
	Interpretation string `json:"interpretation,omitempty"`

	// Overflows holds per-candidate overflow counts on the fallback path.
	Overflows []interpret.CandidateOverflow `json:"overflows,omitempty"`

	// Dropped counts shelf-packer instances that did not fit.
	Dropped int `json:"dropped,omitempty"`
}

// Scene is the complete hand-off to a rendering surface: the scaled
// container envelope and the solids inside it.
type Scene struct {
	Container   geometry.Dimensions `json:"container"`
	Scale       float64             `json:"scale"`
	Solids      []Solid             `json:"solids"`
	Diagnostics Diagnostics         `json:"diagnostics"`
}

// Map converts placements into centered, uniformly scaled display
// coordinates.
//
// The scale is TargetMax divided by the container's largest dimension;
// the container spec must be normalized, which guarantees the divisor is
// positive. Length (X) and width (Z) are centered on the container's
// midpoint; height (Y) is measured from the floor with no centering.
// Solids keep the placements' input order, and each receives color index
// i mod len(Palette).
func Map(container geometry.ContainerSpec, placements []geometry.Placement, diag Diagnostics) Scene {
	s := TargetMax / maxDim(container)

	solids := make([]Solid, len(placements))
	for i, p := range placements {
		half := p.Dimensions.HalfExtents()
		idx := i % len(Palette)
		solids[i] = Solid{
			Name: p.Name,
			Center: geometry.Vec3{
				X: (p.MinCorner.X + half.X - container.Length/2) * s,
				Y: (p.MinCorner.Y + half.Y) * s,
				Z: (p.MinCorner.Z + half.Z - container.Width/2) * s,
			},
			Size: geometry.Dimensions{
				Length: p.Dimensions.Length * s,
				Width:  p.Dimensions.Width * s,
				Height: p.Dimensions.Height * s,
			},
			ColorIndex: idx,
			Color:      Palette[idx],
		}
	}

	return Scene{
		Container: geometry.Dimensions{
			Length: container.Length * s,
			Width:  container.Width * s,
			Height: container.Height * s,
		},
		Scale:       s,
		Solids:      solids,
		Diagnostics: diag,
	}
}

func maxDim(c geometry.ContainerSpec) float64 {
	return max(c.Length, max(c.Width, c.Height))
}
