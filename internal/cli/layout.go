package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	pidio "github.com/matzehuels/pidlayout/pkg/io"
	"github.com/matzehuels/pidlayout/pkg/observability"
	"github.com/matzehuels/pidlayout/pkg/pipeline"
)

// layoutFlags are the flags of the layout command beyond pipeline options.
type layoutFlags struct {
	output  string
	formats string
	noCache bool
	browse  bool
	timings bool
}

// layoutCommand creates the layout command, the main entry point of the tool.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "layout [input.yaml]",
		Short: "Lay out a P&ID from an equipment list",
		Long: `Lay out a P&ID from an equipment list.

The input is a JSON or YAML document listing equipment, connections,
instruments and markups. The command places the equipment, routes the pipes,
positions the instruments and adds annotations, then writes the positioned
diagram as JSON (or msgpack when the output ends in .msgpack).

Flags left unset fall back to the config file, then to built-in defaults.
Results are cached locally for faster subsequent runs.`,
		Example: `  pidlayout layout plant.yaml
  pidlayout layout plant.yaml --placement equipment-type --routing smart -f svg
  pidlayout layout plant.yaml --annotations safety,legend --browse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.diagram.json)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "extra artifacts to write next to the output: json, msgpack, dot, svg")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&flags.browse, "browse", false, "browse diagnostics interactively after layout")
	cmd.Flags().BoolVar(&flags.timings, "timings", false, "print per-stage durations")

	addPipelineFlags(cmd, &opts)
	registerFlagCompletions(cmd)
	return cmd
}

// addPipelineFlags registers the pipeline options shared by layout and
// rearrange. Defaults are zero so that the config file can fill them.
func addPipelineFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()

	f.Float64Var(&opts.Width, "width", 0, fmt.Sprintf("canvas width (default %g)", pipeline.DefaultWidth))
	f.Float64Var(&opts.Height, "height", 0, fmt.Sprintf("canvas height (default %g)", pipeline.DefaultHeight))
	f.Float64Var(&opts.Margin, "margin", 0, fmt.Sprintf("canvas margin (default %g)", pipeline.DefaultMargin))
	f.Float64Var(&opts.GridSize, "grid", 0, "grid size for snapping")

	f.StringVar(&opts.Placement, "placement", "", "placement strategy: process-sequence (default), equipment-type, elevation, grid")
	f.StringVar(&opts.FlowDirection, "direction", "", "flow direction: auto (default), left-to-right, top-to-bottom")
	f.Float64Var(&opts.MinSpacing, "spacing", 0, "minimum spacing between equipment")
	f.BoolVar(&opts.RespectElevation, "respect-elevation", false, "keep equipment in its elevation band")
	f.BoolVar(&opts.SkipOptimize, "no-optimize", false, "skip the crossing-reduction pass")

	f.StringVar(&opts.Routing, "routing", "", "routing strategy: manhattan (default), direct, orthogonal, smart")
	f.BoolVar(&opts.AvoidCrossings, "avoid-crossings", false, "separate parallel pipes")
	f.BoolVar(&opts.SkipSnap, "no-snap", false, "do not snap waypoints to the grid")
	f.Float64Var(&opts.PipeSpacing, "pipe-spacing", 0, "spacing between parallel pipes")
	f.IntVar(&opts.MaxExpansions, "max-expansions", 0, "node expansion budget for smart routing")

	f.StringVar(&opts.Instruments, "instruments", "", "instrument layout: auto (default), by-equipment, by-function, by-loop")
	f.BoolVar(&opts.AutoGenerate, "auto-instruments", false, "generate standard instruments for equipment without any")

	f.StringSliceVar(&opts.Annotations, "annotations", nil, "annotation categories, or none (default: all)")
	f.Uint64Var(&opts.Seed, "seed", 0, "seed for revision cloud outlines")
}

// runLayout loads the input, runs the pipeline, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, flags layoutFlags) error {
	in, err := pidio.ImportInput(input)
	if err != nil {
		return fmt.Errorf("load input %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts = c.options(opts)
	opts.Formats = parseFormats(flags.formats)

	spinner := newSpinnerWithContext(ctx, "Laying out diagram...")
	observability.SetPipelineHooks(stageHooks{spinner: spinner})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
	spinner.Start()

	res, err := runner.Execute(withLogger(ctx, c.Logger), in, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := flags.output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".diagram.json"
	}
	if err := pidio.ExportDiagram(res.Diagram, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	title := "Layout complete"
	if t := res.Diagram.Metadata.Title; t != "" {
		title += ": " + t
	}
	printSuccess("%s", title)
	printFile(outputPath)
	if err := writeArtifacts(outputPath, res.Artifacts); err != nil {
		return err
	}
	printStats(res.Stats, res.CacheInfo.DiagramHit)
	if flags.timings {
		printNewline()
		printTimings(res.Stats)
	}

	if flags.browse && len(res.Diagram.Diagnostics) > 0 {
		if _, err := tea.NewProgram(NewDiagnosticsModel(res.Diagram)).Run(); err != nil {
			return fmt.Errorf("browse diagnostics: %w", err)
		}
	} else if len(res.Diagram.Diagnostics) > 0 {
		printNewline()
		printDiagnostics(res.Diagram.Diagnostics)
	}

	printNewline()
	printNextStep("Preview", appName+" preview "+outputPath)
	return nil
}

// writeArtifacts writes each rendered format next to output, skipping one
// that would overwrite output itself.
func writeArtifacts(output string, artifacts map[string][]byte) error {
	for _, format := range slices.Sorted(maps.Keys(artifacts)) {
		path := artifactPath(output, format)
		if path == output {
			continue
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
