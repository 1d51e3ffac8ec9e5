// Package pkg provides the core libraries for BudgetFlow spending
// visualization.
//
// # Architecture
//
// The typical data flow through BudgetFlow:
//
//	USAspending API
//	         ↓
//	    [usaspending] package (typed API client + response cache)
//	         ↓
//	    [spending] package (data model, concurrent loaders, cleanup)
//	         ↓
//	    [sankey] package (flow graph + layout)
//	         ↓
//	    [render] packages (SVG ribbons, Graphviz node-link)
//	         ↓
//	    SVG/JSON/DOT output
//
// # Main Packages
//
// [usaspending] - Typed client for the spending-explorer aggregation
// endpoint with a file-based response cache ([httputil]).
//
// [spending] - The fiscal-year dataset: category tables, amount records,
// concurrent loading, and agency consolidation.
//
// [sankey] - The layered flow graph (total → object class → budget
// function → agency), layout assignment, and vertical balancing.
//
// [render], [render/svg], [render/nodelink] - Output generation: Sankey
// SVG documents, Graphviz DOT and node-link SVG, currency formatting.
//
// [pipeline] - Complete fetch → graph → layout → render orchestration
// used by the CLI.
//
// [config] - TOML settings file loading.
//
// [errors] - Structured errors with machine-readable codes.
//
// # Quick Start
//
// Run the full pipeline programmatically:
//
//	runner := pipeline.NewRunner(nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    FiscalYear: "2024",
//	    Formats:    []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("spending.svg", result.Artifacts["svg"], 0o644)
//
// [usaspending]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/usaspending
// [spending]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/spending
// [sankey]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/sankey
// [render]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/config
// [errors]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/budgetflow/budgetflow/pkg/httputil
package pkg
