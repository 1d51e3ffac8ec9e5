package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/pkg/sankey"
	"github.com/budgetflow/budgetflow/pkg/spending"
)

// graphCommand creates the graph command. It turns a fetched dataset
// into the layered flow graph and writes it as JSON.
func (c *CLI) graphCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph <dataset.json>",
		Short: "Build the flow graph from a fetched dataset",
		Long: `Build the layered flow graph from a dataset produced by fetch.

The graph routes total spending through object classes and budget
functions to agencies. Edge weights are aggregated from the dataset's
amount records; flows that aggregate to zero are omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <dataset>_graph.json)")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, input, output string) error {
	logger := loggerFromContext(cmd.Context())

	dataset, err := spending.ReadDatasetFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded dataset: FY%s, %d records", dataset.FiscalYear, len(dataset.Records))

	prog := newProgress(logger)
	g := sankey.Build(dataset)
	prog.done(fmt.Sprintf("Built flow graph: %d nodes, %d edges", len(g.Nodes), len(g.Edges)))

	if output == "" {
		output = basePath("", input) + "_graph.json"
	}
	if err := sankey.WriteGraphFile(g, output); err != nil {
		return err
	}

	printSuccess("Built flow graph for FY%s", dataset.FiscalYear)
	printStats(len(g.Nodes), len(g.Edges), len(dataset.Records))
	printFile(output)
	printNextStep("Render the diagram", fmt.Sprintf("budgetflow render %s", output))
	return nil
}
