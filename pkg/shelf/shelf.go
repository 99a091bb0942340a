// Package shelf implements the deterministic greedy layout used when no
// packed-item data exists at all: a first-fit shelf packer operating in
// the container's length/width plane.
//
// The packer deliberately does no optimization. Items are expanded into
// unit instances in input order and placed row by row; rotation is never
// attempted and nothing is stacked, so every placement sits on the
// container floor. The goal is a plausible, repeatable view, not a good
// packing; that is the remote service's job.
package shelf

import "github.com/boxlogic/stowplan/pkg/geometry"

// Padding is the visual gap inserted between neighboring instances and
// rows, in meters.
const Padding = 0.01

// tol is the slack used when testing whether an instance still fits the
// row or the container.
const tol = 1e-9

// Result is the outcome of one packing pass.
type Result struct {
	// Placements holds min-corner placements for every instance that
	// fit, in input order.
	Placements []geometry.Placement

	// Dropped counts instances that did not fit once the container's
	// width was exhausted. The placements themselves are unaffected;
	// callers decide whether to surface the count.
	Dropped int
}

// Pack lays out the given item specs on the container floor.
//
// Each spec is expanded into Quantity instances, preserving input order;
// items are never reordered by size or any other key. A cursor walks the
// length axis, wrapping into a new row (advancing along the width axis
// by the tallest width seen in the finished row, plus Padding) once the
// next instance would pass the container's far end. Fit is judged on the
// instances' actual extents; Padding only separates placements visually.
// When a wrapped instance still cannot fit, or the new row would start
// beyond the container width, packing stops and the remaining instances
// are counted as dropped.
//
// Pack normalizes its inputs, is pure, and is deterministic: identical
// specs yield identical results.
func Pack(container geometry.ContainerSpec, items []geometry.ItemSpec) Result {
	c := container.Normalized()

	var res Result
	var (
		xRaw, zRaw float64 // cursors excluding padding
		layerWidth float64 // widest instance in the current row
		col, row   int
	)

	instances := expand(items)
	for i, it := range instances {
		if xRaw+it.Length > c.Length+tol {
			// Wrap into the next row.
			zRaw += layerWidth
			xRaw, col = 0, 0
			layerWidth = 0
			row++
		}
		if xRaw+it.Length > c.Length+tol {
			// Too long even from the row start; nothing later can
			// change that, so stop here.
			res.Dropped = len(instances) - i
			return res
		}
		if zRaw+it.Width > c.Width+tol {
			res.Dropped = len(instances) - i
			return res
		}

		res.Placements = append(res.Placements, geometry.Placement{
			Name: it.Name,
			MinCorner: geometry.Vec3{
				X: xRaw + Padding*float64(col),
				Z: zRaw + Padding*float64(row),
			},
			Dimensions: it.Dimensions(),
		})

		xRaw += it.Length
		col++
		layerWidth = max(layerWidth, it.Width)
	}

	return res
}

// expand flattens specs into per-unit instances, normalized and in
// input order.
func expand(items []geometry.ItemSpec) []geometry.ItemSpec {
	var out []geometry.ItemSpec
	for _, raw := range items {
		it := raw.Normalized()
		for n := 0; n < it.Quantity; n++ {
			out = append(out, it)
		}
	}
	return out
}
