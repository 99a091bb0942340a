package pipeline

import (
	"github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/scene"
	"github.com/boxlogic/stowplan/pkg/scene/sink"
)

// renderScene produces the requested output formats for a scene.
func renderScene(sc scene.Scene, util string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONUtilization(util)}
			if opts.Compact {
				jsonOpts = append(jsonOpts, sink.WithJSONCompact())
			}
			if opts.PlanName != "" {
				jsonOpts = append(jsonOpts, sink.WithJSONPlanName(opts.PlanName))
			}
			data, err := sink.RenderJSON(sc, jsonOpts...)
			if err != nil {
				return nil, err
			}
			artifacts[format] = data

		case FormatSVG:
			var svgOpts []sink.SVGOption
			if opts.Labels {
				svgOpts = append(svgOpts, sink.WithSVGLabels())
			}
			if opts.SideView {
				svgOpts = append(svgOpts, sink.WithSVGSideView())
			}
			if opts.PlanName != "" {
				svgOpts = append(svgOpts, sink.WithSVGTitle(opts.PlanName))
			}
			artifacts[format] = sink.RenderSVG(sc, svgOpts...)

		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
		}
	}

	return artifacts, nil
}
