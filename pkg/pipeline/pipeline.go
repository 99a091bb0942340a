// Package pipeline provides the core planning pipeline for stowplan.
//
// This package implements the complete pack → layout → render pipeline
// that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Pack: Obtain packed-item positions, either from the remote
//     packing service or via the built-in shelf layout.
//  2. Layout: Interpret the raw positions into a consistent
//     min-corner coordinate frame and map them into scene space.
//  3. Render: Generate output in various formats (JSON, SVG).
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Container: container,
//	    Items:     items,
//	    Formats:   []string{"json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := result.Artifacts["json"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/geometry"
	"github.com/boxlogic/stowplan/pkg/packer"
	"github.com/boxlogic/stowplan/pkg/scene"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
)

// InterpretationShelf marks scenes laid out by the built-in shelf
// packer rather than an interpreted remote result.
const InterpretationShelf = "shelf"

// Options contains all configuration for the planning pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Pack options
	Container geometry.ContainerSpec `json:"container"`
	Items     []geometry.ItemSpec    `json:"items"`

	// Packed supplies raw packing results directly, skipping the
	// remote service. Used when the caller already has service output
	// (for example a saved response file).
	Packed []geometry.PackedItem `json:"packed,omitempty"`

	// ContainerIndex selects which container of a multi-container
	// service response to visualize.
	ContainerIndex int `json:"container_index,omitempty"`

	BiggerFirst     bool `json:"bigger_first,omitempty"`
	DistributeItems bool `json:"distribute_items,omitempty"`
	Refresh         bool `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	SideView bool     `json:"side_view,omitempty"`
	Compact  bool     `json:"compact,omitempty"`
	PlanName string   `json:"plan_name,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Response is the raw service reply, nil when the shelf fallback
	// produced the layout.
	Response *packer.PlanResponse

	// Scene is the visualization-ready scene.
	Scene scene.Scene

	// Utilization is the container fill percentage, formatted with two
	// decimals.
	Utilization string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Solids     int
	Dropped    int
	PackTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PackHit   bool // Whether the packing response came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults
// for the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPack(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForPack checks required fields for the packing stage.
func (o *Options) ValidateForPack() error {
	if err := errors.ValidateContainer(o.Container); err != nil {
		return err
	}
	// Full item validation happens in the packer client, and only for
	// remote runs. The shelf layout accepts anything and drops what
	// does not fit, so oversized items are not an input error here.
	if o.ContainerIndex < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "container index must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// planOptions converts the pipeline options into packer client options.
func (o *Options) planOptions() packer.PlanOptions {
	return packer.PlanOptions{
		BiggerFirst:     o.BiggerFirst,
		DistributeItems: o.DistributeItems,
		Refresh:         o.Refresh,
	}
}
