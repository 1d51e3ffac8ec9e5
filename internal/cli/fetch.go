package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/pkg/errors"
	"github.com/budgetflow/budgetflow/pkg/pipeline"
	"github.com/budgetflow/budgetflow/pkg/spending"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	fiscalYear string
	cutoff     int
	baseURL    string
	output     string
	noCache    bool
}

// fetchCommand creates the fetch command. It downloads the spending
// breakdown for one fiscal year and writes the cleaned dataset as JSON.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch spending data for a fiscal year",
		Long: `Fetch the spending breakdown for one fiscal year from the USAspending API.

The command queries the aggregate totals per object class, budget function,
and agency, then the agency breakdown for every object class and budget
function pair. Responses are cached locally; use --no-cache to bypass.

Examples:
  budgetflow fetch                      # current fiscal year
  budgetflow fetch --fy 2023 -o fy23.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.fiscalYear, "fy", "", "fiscal year (default: current federal fiscal year)")
	cmd.Flags().IntVar(&opts.cutoff, "cutoff", 0, fmt.Sprintf("agencies to keep before consolidating into Other (default %d)", pipeline.DefaultAgencyCutoff))
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "spending API base URL (default: production USAspending)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default spending_<fy>.json)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, opts *fetchOpts) error {
	pipeOpts := pipeline.Options{
		FiscalYear:   opts.fiscalYear,
		AgencyCutoff: opts.cutoff,
	}
	cfg, err := c.loadOptions(&pipeOpts)
	if err != nil {
		return err
	}
	if opts.baseURL == "" {
		opts.baseURL = cfg.BaseURL
	}
	if err := pipeOpts.ValidateForFetch(); err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	runner := c.newRunner(opts.baseURL, opts.noCache)

	spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Fetching FY%s spending data", pipeOpts.FiscalYear))
	spinner.Start()

	dataset, err := runner.Fetch(cmd.Context(), pipeOpts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return context.Canceled
		}
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Fetched FY%s spending data", dataset.FiscalYear))
	printStats(0, 0, len(dataset.Records))

	output := opts.output
	if output == "" {
		output = fmt.Sprintf("spending_%s.json", dataset.FiscalYear)
	}
	if err := spending.WriteDatasetFile(dataset, output); err != nil {
		return err
	}
	printFile(output)
	printNextStep("Build the flow graph", fmt.Sprintf("budgetflow graph %s", output))
	return nil
}
