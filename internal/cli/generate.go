package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/pkg/errors"
	"github.com/budgetflow/budgetflow/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	fiscalYear  string
	cutoff      int
	baseURL     string
	output      string
	vizType     string
	formats     []string
	width       float64
	height      float64
	nodeWidth   float64
	nodePadding float64
	noCache     bool
}

// generateCommand creates the generate command: the complete
// fetch → graph → layout → render pipeline in one step.
func (c *CLI) generateCommand() *cobra.Command {
	var formatsStr string
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch, build, and render in one step",
		Long: `Run the complete pipeline: fetch spending data for a fiscal year,
build the flow graph, compute the layout, and render the diagram.

Examples:
  budgetflow generate                          # current fiscal year, SVG
  budgetflow generate --fy 2023 -f svg,json -o fy23`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.fiscalYear, "fy", "", "fiscal year (default: current federal fiscal year)")
	cmd.Flags().IntVar(&opts.cutoff, "cutoff", 0, fmt.Sprintf("agencies to keep before consolidating into Other (default %d)", pipeline.DefaultAgencyCutoff))
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "spending API base URL (default: production USAspending)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (default spending_<fy>)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", "", "visualization type: sankey (default), nodelink")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, fmt.Sprintf("canvas width (default %.0f)", pipeline.DefaultWidth))
	cmd.Flags().Float64Var(&opts.height, "height", 0, fmt.Sprintf("canvas height (default %.0f)", pipeline.DefaultHeight))
	cmd.Flags().Float64Var(&opts.nodeWidth, "node-width", 0, fmt.Sprintf("node stub width (default %.0f)", pipeline.DefaultNodeWidth))
	cmd.Flags().Float64Var(&opts.nodePadding, "node-padding", 0, fmt.Sprintf("vertical gap between nodes (default %.0f)", pipeline.DefaultNodePadding))
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	pipeOpts := pipeline.Options{
		FiscalYear:   opts.fiscalYear,
		AgencyCutoff: opts.cutoff,
		VizType:      opts.vizType,
		Formats:      opts.formats,
		Width:        opts.width,
		Height:       opts.height,
		NodeWidth:    opts.nodeWidth,
		NodePadding:  opts.nodePadding,
	}
	cfg, err := c.loadOptions(&pipeOpts)
	if err != nil {
		return err
	}
	if opts.baseURL == "" {
		opts.baseURL = cfg.BaseURL
	}
	if opts.output == "" {
		opts.output = cfg.Output
	}
	if err := pipeOpts.ValidateAndSetDefaults(); err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	runner := c.newRunner(opts.baseURL, opts.noCache)

	spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Generating FY%s spending diagram", pipeOpts.FiscalYear))
	spinner.Start()

	result, err := runner.Execute(cmd.Context(), pipeOpts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return context.Canceled
		}
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Generated FY%s spending diagram", pipeOpts.FiscalYear))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.RecordCount)
	printDetail("fetch %s · layout %s · render %s",
		result.Stats.FetchTime.Round(time.Millisecond),
		result.Stats.LayoutTime.Round(time.Millisecond),
		result.Stats.RenderTime.Round(time.Millisecond))

	output := opts.output
	if output == "" {
		output = fmt.Sprintf("spending_%s", pipeOpts.FiscalYear)
	}
	return writeArtifacts(result.Artifacts, output, output, pipeOpts.Formats)
}
