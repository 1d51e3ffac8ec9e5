package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/pkg/errors"
	"github.com/budgetflow/budgetflow/pkg/pipeline"
	"github.com/budgetflow/budgetflow/pkg/sankey"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string
	vizType     string
	formats     []string
	width       float64
	height      float64
	nodeWidth   float64
	nodePadding float64
}

// renderCommand creates the render command. It loads a graph file,
// computes the layout, and writes the requested artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a flow graph to SVG, JSON, or DOT",
		Long: `Render a flow graph produced by the graph command.

The sankey view (default) draws curved ribbons whose widths are
proportional to spending. The nodelink view renders a conventional
box-and-arrow diagram via Graphviz.

Examples:
  budgetflow render spending_2024_graph.json
  budgetflow render spending_2024_graph.json -f svg,dot -t nodelink`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", "", "visualization type: sankey (default), nodelink")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, fmt.Sprintf("canvas width (default %.0f)", pipeline.DefaultWidth))
	cmd.Flags().Float64Var(&opts.height, "height", 0, fmt.Sprintf("canvas height (default %.0f)", pipeline.DefaultHeight))
	cmd.Flags().Float64Var(&opts.nodeWidth, "node-width", 0, fmt.Sprintf("node stub width (default %.0f)", pipeline.DefaultNodeWidth))
	cmd.Flags().Float64Var(&opts.nodePadding, "node-padding", 0, fmt.Sprintf("vertical gap between nodes (default %.0f)", pipeline.DefaultNodePadding))

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	logger := loggerFromContext(cmd.Context())

	pipeOpts := pipeline.Options{
		VizType:     opts.vizType,
		Formats:     opts.formats,
		Width:       opts.width,
		Height:      opts.height,
		NodeWidth:   opts.nodeWidth,
		NodePadding: opts.nodePadding,
	}
	if _, err := c.loadOptions(&pipeOpts); err != nil {
		return err
	}
	if err := pipeOpts.ValidateForRender(); err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	g, err := sankey.ReadGraphFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded graph: %d nodes, %d edges", len(g.Nodes), len(g.Edges))

	runner := pipeline.NewRunner(nil, c.Logger)
	runner.ComputeLayout(g, pipeOpts)

	artifacts, err := runner.Render(g, pipeOpts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d artifact(s)", len(artifacts))
	return writeArtifacts(artifacts, opts.output, input, pipeOpts.Formats)
}

// writeArtifacts writes rendered artifacts to disk. A single format with
// an explicit output filename goes to exactly that path; otherwise names
// are derived as <base>.<format>.
func writeArtifacts(artifacts map[string][]byte, output, input string, formats []string) error {
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return err
		}
		printFile(output)
		return nil
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}
