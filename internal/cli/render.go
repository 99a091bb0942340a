package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/scene/sink"
)

// renderCommand creates the render command for converting saved scenes
// to SVG.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		labels   bool
		sideView bool
		title    string
	)

	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Render a saved scene to SVG",
		Long: `Render a saved scene to SVG.

The render command takes a scene.json file (produced by 'plan') and
draws it as a top-down SVG, optionally with a side elevation panel.
The scene already contains display coordinates, so this step is purely
about drawing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], output, labels, sideView, title)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .svg extension)")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw item names")
	cmd.Flags().BoolVar(&sideView, "side-view", false, "add a side elevation panel")
	cmd.Flags().StringVar(&title, "title", "", "title drawn above the scene")

	return cmd
}

func (c *CLI) runRender(input, output string, labels, sideView bool, title string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", input)
		}
		return fmt.Errorf("read scene %s: %w", input, err)
	}

	sc, err := sink.ParseJSON(data)
	if err != nil {
		return err
	}

	var svgOpts []sink.SVGOption
	if labels {
		svgOpts = append(svgOpts, sink.WithSVGLabels())
	}
	if sideView {
		svgOpts = append(svgOpts, sink.WithSVGSideView())
	}
	if title != "" {
		svgOpts = append(svgOpts, sink.WithSVGTitle(title))
	}
	rendered := sink.RenderSVG(sc, svgOpts...)

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}
	if err := os.WriteFile(output, rendered, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %d items", len(sc.Solids))
	printFile(output)
	return nil
}
