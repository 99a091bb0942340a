package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boxlogic/stowplan/pkg/pipeline"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	output     string // output file path (or base path for multiple formats)
	packedFile string // saved packing response to visualize instead of calling the service
	formats    []string
	labels     bool // draw item names in SVG output
	sideView   bool // add side elevation panel to SVG output
	name       string
	container  int // container index of a multi-container response
	bigger     bool
	distribute bool
	refresh    bool
	noCache    bool
	local      bool // skip the remote service even when configured
}

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var formatsStr string
	opts := planOpts{}

	cmd := &cobra.Command{
		Use:   "plan [manifest]",
		Short: "Compute a load plan and export the scene",
		Long: `Compute a load plan from a manifest describing the container and items.

The manifest is a TOML (or JSON) file:

    [container]
    length = 12.0
    width = 2.3
    height = 2.4
    unit = "m"

    [[items]]
    name = "crate"
    length = 120
    width = 80
    height = 100
    quantity = 4
    unit = "cm"

With a packing service configured, positions come from the service and
are interpreted into a consistent coordinate frame. Without one (or
with --local), the built-in shelf layout places the items row by row.
Use --packed to visualize a saved service response instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runPlan(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg (comma-separated)")
	cmd.Flags().StringVar(&opts.packedFile, "packed", "", "saved packing response (JSON) to visualize")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw item names in SVG output")
	cmd.Flags().BoolVar(&opts.sideView, "side-view", false, "add a side elevation panel to SVG output")
	cmd.Flags().StringVar(&opts.name, "name", "", "plan name embedded in the output")
	cmd.Flags().IntVar(&opts.container, "container", 0, "container index of a multi-container response")
	cmd.Flags().BoolVar(&opts.bigger, "bigger-first", false, "ask the service to place larger items first")
	cmd.Flags().BoolVar(&opts.distribute, "distribute", false, "spread identical items across containers")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the response cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.local, "local", false, "use the built-in shelf layout, skip the remote service")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, manifestPath string, opts planOpts) error {
	m, err := readManifest(manifestPath)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	if opts.local {
		runner.Packer = nil
	}

	pipeOpts := pipeline.Options{
		Container:       m.Container,
		Items:           m.Items,
		ContainerIndex:  opts.container,
		BiggerFirst:     opts.bigger,
		DistributeItems: opts.distribute,
		Refresh:         opts.refresh,
		Formats:         opts.formats,
		Labels:          opts.labels,
		SideView:        opts.sideView,
		PlanName:        opts.name,
		Logger:          c.Logger,
	}
	if opts.packedFile != "" {
		packed, err := readPacked(opts.packedFile)
		if err != nil {
			return err
		}
		pipeOpts.Packed = packed
	}

	spinner := newSpinner(ctx, "Planning load...")
	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		spinner.StopWithError("Planning failed")
		return err
	}
	spinner.Stop()

	printSuccess("Planned %d items", result.Stats.Solids)
	printStats(result.Stats.Solids, result.Stats.Dropped, result.CacheInfo.PackHit)
	if result.Scene.Diagnostics.UsedFallback {
		printWarning("no coordinate reading fit; positions were clamped into the container")
		for _, o := range result.Scene.Diagnostics.Overflows {
			printDetail("%s: %d items outside", o.Candidate, o.Overflow)
		}
	}
	if result.Stats.Dropped > 0 {
		printWarning("%d items did not fit and were left out", result.Stats.Dropped)
	}
	printKeyValue("utilization", result.Utilization+"%")

	return writeArtifacts(result.Artifacts, opts.formats, manifestPath, opts.output)
}

// writeArtifacts writes rendered outputs to disk. With one format the
// output flag names the file directly; with several it is a base path
// and each format appends its extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	base := basePath(output, input)

	for _, format := range formats {
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input file
// paths. If output is empty, it strips the extension from input. If
// output has a known format extension, it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	switch strings.TrimPrefix(ext, ".") {
	case pipeline.FormatJSON, pipeline.FormatSVG:
		return strings.TrimSuffix(output, ext)
	}
	return output
}
