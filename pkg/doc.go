// Package pkg provides the core libraries for Stowplan load visualization.
//
// # Overview
//
// Stowplan turns bin-packing results into renderable 3D scenes. The pkg
// directory is organized into a few main areas:
//
//  1. [units], [geometry] - Input model (unit conversion, containers, items)
//  2. [interpret], [shelf] - Layout (coordinate reading resolution, fallback packing)
//  3. [scene] - Scene mapping and output sinks (JSON, SVG)
//  4. [packer], [cache], [store] - Infrastructure (service client, caching, persistence)
//  5. [pipeline] - Orchestration (pack → layout → render)
//
// # Architecture
//
// The typical data flow through Stowplan:
//
//	Manifest (container + items)
//	         ↓
//	    [packer] package (remote bin-packing service)
//	         ↓
//	    [interpret] package (resolve the service's coordinate convention)
//	         ↓      ↘ (no service / unusable result)
//	         ↓   [shelf] package (deterministic fallback layout)
//	         ↓      ↙
//	    [scene] package (normalize into render coordinates)
//	         ↓
//	    JSON/SVG output
//
// # Quick Start
//
// Run the whole pipeline through a runner:
//
//	import (
//	    "context"
//	    "github.com/boxlogic/stowplan/pkg/cache"
//	    "github.com/boxlogic/stowplan/pkg/geometry"
//	    "github.com/boxlogic/stowplan/pkg/pipeline"
//	)
//
//	func main() {
//	    c, _ := cache.NewFileCache("/tmp/stowplan-cache")
//	    runner := pipeline.NewRunner(c, nil, nil)
//	    defer runner.Close()
//
//	    result, err := runner.Execute(context.Background(), pipeline.Options{
//	        Container: geometry.ContainerSpec{Length: 2, Width: 1.5, Height: 1.5},
//	        Items: []geometry.ItemSpec{
//	            {Name: "crate", Length: 0.6, Width: 0.4, Height: 0.4, Quantity: 4},
//	        },
//	        Formats: []string{pipeline.FormatJSON},
//	    })
//	    if err != nil {
//	        // handle err
//	    }
//	    _ = result.Artifacts[pipeline.FormatJSON]
//	}
//
// Without a remote packer the runner lays items out on shelves itself;
// wire a [packer.Client] into the runner to use a real packing service.
package pkg
