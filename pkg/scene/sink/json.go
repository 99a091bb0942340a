// Package sink renders a mapped scene into interchange and preview
// formats. JSON is the primary hand-off format for external rendering
// surfaces; SVG provides a self-contained 2D preview (top-down plus side
// elevation) that needs no 3D engine.
package sink

import (
	"encoding/json"

	"github.com/boxlogic/stowplan/pkg/geometry"
	"github.com/boxlogic/stowplan/pkg/interpret"
	"github.com/boxlogic/stowplan/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact     bool
	planName    string
	utilization string
}

// WithJSONCompact disables indentation, producing a single-line document.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithJSONPlanName records a human-readable plan name in the document.
func WithJSONPlanName(name string) JSONOption {
	return func(r *jsonRenderer) { r.planName = name }
}

// WithJSONUtilization records the container's volume utilization (as the
// packing service reports it, e.g. "83.20%").
func WithJSONUtilization(u string) JSONOption {
	return func(r *jsonRenderer) { r.utilization = u }
}

type jsonOutput struct {
	Plan        string                        `json:"plan,omitempty"`
	Utilization string                        `json:"utilization,omitempty"`
	Scale       float64                       `json:"scale"`
	Container   jsonSize                      `json:"container"`
	Solids      []jsonSolid                   `json:"solids"`
	Fallback    bool                          `json:"used_fallback"`
	Reading     string                        `json:"interpretation,omitempty"`
	Overflows   []interpret.CandidateOverflow `json:"overflows,omitempty"`
	Dropped     int                           `json:"dropped,omitempty"`
}

type jsonSize struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonSolid struct {
	Name       string   `json:"name"`
	Center     jsonVec  `json:"center"`
	Size       jsonSize `json:"size"`
	ColorIndex int      `json:"color_index"`
	Color      string   `json:"color"`
}

type jsonVec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RenderJSON exports a scene as a JSON document.
//
// The document carries everything a rendering surface needs: the scaled
// container envelope, per-solid centered positions and sizes, palette
// colors, and the diagnostics from the resolution pass. It is stable
// across runs for identical scenes, making it suitable for caching and
// golden-file comparison.
func RenderJSON(sc scene.Scene, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Plan:        r.planName,
		Utilization: r.utilization,
		Scale:       sc.Scale,
		Container:   jsonSize{Length: sc.Container.Length, Width: sc.Container.Width, Height: sc.Container.Height},
		Solids:      make([]jsonSolid, len(sc.Solids)),
		Fallback:    sc.Diagnostics.UsedFallback,
		Reading:     sc.Diagnostics.Interpretation,
		Overflows:   sc.Diagnostics.Overflows,
		Dropped:     sc.Diagnostics.Dropped,
	}
	for i, s := range sc.Solids {
		out.Solids[i] = jsonSolid{
			Name:       s.Name,
			Center:     jsonVec{X: s.Center.X, Y: s.Center.Y, Z: s.Center.Z},
			Size:       jsonSize{Length: s.Size.Length, Width: s.Size.Width, Height: s.Size.Height},
			ColorIndex: s.ColorIndex,
			Color:      s.Color,
		}
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseJSON reads a document produced by [RenderJSON] back into a scene.
// Round-tripping lets the render command work from a previously exported
// plan without recomputing it.
func ParseJSON(data []byte) (scene.Scene, error) {
	var in jsonOutput
	if err := json.Unmarshal(data, &in); err != nil {
		return scene.Scene{}, err
	}

	sc := scene.Scene{
		Scale: in.Scale,
		Container: geometry.Dimensions{
			Length: in.Container.Length,
			Width:  in.Container.Width,
			Height: in.Container.Height,
		},
		Solids: make([]scene.Solid, len(in.Solids)),
	}
	sc.Diagnostics.UsedFallback = in.Fallback
	sc.Diagnostics.Interpretation = in.Reading
	sc.Diagnostics.Overflows = in.Overflows
	sc.Diagnostics.Dropped = in.Dropped

	for i, s := range in.Solids {
		sc.Solids[i] = scene.Solid{
			Name:       s.Name,
			ColorIndex: s.ColorIndex,
			Color:      s.Color,
		}
		sc.Solids[i].Center.X = s.Center.X
		sc.Solids[i].Center.Y = s.Center.Y
		sc.Solids[i].Center.Z = s.Center.Z
		sc.Solids[i].Size.Length = s.Size.Length
		sc.Solids[i].Size.Width = s.Size.Width
		sc.Solids[i].Size.Height = s.Size.Height
	}
	return sc, nil
}
