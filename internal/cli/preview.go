package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pidio "github.com/matzehuels/pidlayout/pkg/io"
	"github.com/matzehuels/pidlayout/pkg/pipeline"
	"github.com/matzehuels/pidlayout/pkg/preview"
)

// previewCommand creates the preview command for rendering a laid-out
// diagram with Graphviz.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output        string
		format        string
		noInstruments bool
		noAnnotations bool
	)

	cmd := &cobra.Command{
		Use:   "preview [diagram.json]",
		Short: "Render a laid-out diagram as SVG or DOT",
		Long: `Render a laid-out diagram as SVG or DOT.

Node positions are pinned, so the preview shows the computed layout rather
than a Graphviz layout. Pipes are drawn through their waypoints.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layers := preview.Options{Instruments: !noInstruments, Annotations: !noAnnotations}
			return c.runPreview(cmd.Context(), args[0], output, format, layers)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, dot")
	cmd.Flags().BoolVar(&noInstruments, "no-instruments", false, "leave out instruments")
	cmd.Flags().BoolVar(&noAnnotations, "no-annotations", false, "leave out annotations")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input, output, format string, layers preview.Options) error {
	d, err := pidio.ImportDiagram(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}
	if output == "" {
		output = artifactPath(input, format)
	}

	prog := newProgress(c.Logger)
	var data []byte
	switch format {
	case pipeline.FormatDOT:
		data = []byte(preview.ToDOT(d, layers))
	case pipeline.FormatSVG:
		spinner := newSpinnerWithContext(ctx, "Rendering preview...")
		spinner.Start()
		data, err = preview.Render(ctx, d, layers)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
	default:
		return fmt.Errorf("invalid preview format: %q (must be svg or dot)", format)
	}
	prog.done("Rendered " + format)

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Preview written")
	printFile(output)
	return nil
}
