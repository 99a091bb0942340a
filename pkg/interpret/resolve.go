package interpret

import "github.com/boxlogic/stowplan/pkg/geometry"

// Tolerance is the numeric slack allowed on each envelope bound when
// judging containment.
const Tolerance = 1e-9

// CandidateOverflow records how many items escaped the container under
// one candidate reading. Reported as a diagnostic when the clamped
// fallback is taken.
type CandidateOverflow struct {
	Candidate string `json:"candidate"`
	Overflow  int    `json:"overflow"`
}

// Resolution is the outcome of one interpretation pass.
type Resolution struct {
	// Placements holds one entry per input item, in input order.
	Placements []geometry.Placement

	// Interpretation names the transform the placements were derived
	// with. When UsedFallback is true this is always MinCorner.
	Interpretation string

	// UsedFallback reports that no candidate validated and positions
	// were clamped into the envelope instead.
	UsedFallback bool

	// Overflows carries the per-candidate overflow counts, populated
	// only on the fallback path.
	Overflows []CandidateOverflow
}

// Resolve determines which candidate reading of the raw positions keeps
// every item inside the container envelope, and derives min-corner
// placements under that reading.
//
// Candidates are evaluated in the fixed order returned by Candidates;
// the first with zero overflowing items wins. If none validates, Resolve
// falls back to the natural min-corner reading and clamps each item's
// minimum corner into [0, containerDim-itemDim] per axis (0 when the
// item exceeds the container on that axis), recording per-candidate
// overflow counts as a diagnostic. Resolve never fails: bad geometry
// always yields a best-effort placement list.
//
// The container must already be normalized (positive dimensions in
// meters). Resolve is deterministic: identical inputs produce identical
// resolutions.
func Resolve(container geometry.ContainerSpec, items []geometry.PackedItem) Resolution {
	candidates := Candidates()
	overflows := make([]CandidateOverflow, 0, len(candidates))

	for _, tr := range candidates {
		n := countOverflows(container, items, tr)
		if n == 0 {
			return Resolution{
				Placements:     placeAll(items, tr),
				Interpretation: tr.Name,
			}
		}
		overflows = append(overflows, CandidateOverflow{Candidate: tr.Name, Overflow: n})
	}

	return Resolution{
		Placements:     clampAll(container, items, candidates[0]),
		Interpretation: candidates[0].Name,
		UsedFallback:   true,
		Overflows:      overflows,
	}
}

// countOverflows counts items whose bounding box under tr is not fully
// contained in [0,L] x [0,H] x [0,W], with Tolerance slack per bound.
func countOverflows(c geometry.ContainerSpec, items []geometry.PackedItem, tr Transform) int {
	n := 0
	for _, it := range items {
		min := tr.Apply(it.Position, it.Dimensions)
		max := geometry.Placement{MinCorner: min, Dimensions: it.Dimensions}.MaxCorner()

		if min.X < -Tolerance || min.Y < -Tolerance || min.Z < -Tolerance ||
			max.X > c.Length+Tolerance || max.Y > c.Height+Tolerance || max.Z > c.Width+Tolerance {
			n++
		}
	}
	return n
}

func placeAll(items []geometry.PackedItem, tr Transform) []geometry.Placement {
	out := make([]geometry.Placement, len(items))
	for i, it := range items {
		out[i] = geometry.Placement{
			Name:       it.Name,
			MinCorner:  tr.Apply(it.Position, it.Dimensions),
			Dimensions: it.Dimensions,
		}
	}
	return out
}

func clampAll(c geometry.ContainerSpec, items []geometry.PackedItem, tr Transform) []geometry.Placement {
	out := make([]geometry.Placement, len(items))
	for i, it := range items {
		min := tr.Apply(it.Position, it.Dimensions)
		out[i] = geometry.Placement{
			Name: it.Name,
			MinCorner: geometry.Vec3{
				X: clampAxis(min.X, c.Length, it.Dimensions.Length),
				Y: clampAxis(min.Y, c.Height, it.Dimensions.Height),
				Z: clampAxis(min.Z, c.Width, it.Dimensions.Width),
			},
			Dimensions: it.Dimensions,
		}
	}
	return out
}

// clampAxis confines a minimum-corner coordinate to [0, span-extent].
// Items larger than the container on an axis pin to 0.
func clampAxis(v, span, extent float64) float64 {
	limit := span - extent
	if limit < 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
