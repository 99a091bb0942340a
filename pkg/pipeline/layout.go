package pipeline

import (
	"fmt"

	"github.com/boxlogic/stowplan/pkg/geometry"
	"github.com/boxlogic/stowplan/pkg/interpret"
	"github.com/boxlogic/stowplan/pkg/packer"
	"github.com/boxlogic/stowplan/pkg/scene"
	"github.com/boxlogic/stowplan/pkg/shelf"
)

// buildScene turns packed positions (or, absent those, the raw item
// list) into a display-ready scene.
//
// With packed positions the coordinate interpretation resolver decides
// how to read them; without, the shelf layout places the items itself.
// Either way the result is a scene, never an error: layout problems
// surface as diagnostics on the scene.
func buildScene(opts Options, packed []geometry.PackedItem) scene.Scene {
	container := opts.Container.Normalized()

	if len(packed) > 0 {
		res := interpret.Resolve(container, packed)
		return scene.Map(container, res.Placements, scene.Diagnostics{
			UsedFallback:   res.UsedFallback,
			Interpretation: res.Interpretation,
			Overflows:      res.Overflows,
		})
	}

	result := shelf.Pack(container, opts.Items)
	return scene.Map(container, result.Placements, scene.Diagnostics{
		Interpretation: InterpretationShelf,
		Dropped:        result.Dropped,
	})
}

// selectPacked picks the packed items to visualize: explicitly supplied
// positions win, then the requested container of the service response.
func selectPacked(opts Options, resp *packer.PlanResponse) []geometry.PackedItem {
	if len(opts.Packed) > 0 {
		return opts.Packed
	}
	if resp == nil || opts.ContainerIndex >= len(resp.Results) {
		return nil
	}
	return resp.Results[opts.ContainerIndex].PackedItems
}

// utilization reports the placed volume as a percentage of container
// volume, formatted with two decimals like the packing service does.
func utilization(container geometry.ContainerSpec, sc scene.Scene) string {
	cv := container.Normalized().Dimensions().Volume()
	if cv <= 0 {
		return "0.00"
	}
	var placed float64
	for _, s := range sc.Solids {
		placed += s.Size.Volume() / (sc.Scale * sc.Scale * sc.Scale)
	}
	return fmt.Sprintf("%.2f", placed/cv*100)
}
