package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/budgetflow/budgetflow/pkg/errors"
	"github.com/budgetflow/budgetflow/pkg/render/nodelink"
	rendersvg "github.com/budgetflow/budgetflow/pkg/render/svg"
	"github.com/budgetflow/budgetflow/pkg/sankey"
	"github.com/budgetflow/budgetflow/pkg/spending"
	"github.com/budgetflow/budgetflow/pkg/usaspending"
)

// Runner encapsulates pipeline execution. It is stateless except for the
// API client and logger: multiple goroutines can safely use the same
// Runner with different options. Response caching lives inside the client.
type Runner struct {
	Client *usaspending.Client
	Logger *log.Logger
}

// NewRunner creates a runner with the given API client.
// If client is nil, a default client against the public API is used.
func NewRunner(client *usaspending.Client, logger *log.Logger) *Runner {
	if client == nil {
		client = usaspending.NewClient(usaspending.DefaultBaseURL, nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Client: client, Logger: logger}
}

// Execute runs the complete fetch → graph → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	fetchStart := time.Now()
	dataset, err := r.Fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Dataset = dataset
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.RecordCount = len(dataset.Records)

	r.Logger.Info("fetched spending data",
		"fiscal_year", dataset.FiscalYear,
		"records", len(dataset.Records),
		"duration", result.Stats.FetchTime)

	graphStart := time.Now()
	g := r.BuildGraph(dataset)
	result.Graph = g
	result.Stats.GraphTime = time.Since(graphStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	r.Logger.Info("built flow graph",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"duration", result.Stats.GraphTime)

	layoutStart := time.Now()
	r.ComputeLayout(g, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"width", opts.Width,
		"height", opts.Height,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := r.Render(g, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Fetch pulls categories and amount records for the fiscal year and
// consolidates the agency long tail into the Other bucket.
func (r *Runner) Fetch(ctx context.Context, opts Options) (spending.Dataset, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return spending.Dataset{}, err
	}
	r.applyLogger(&opts)

	loader := spending.NewLoader(r.Client, opts.Logger)

	table, err := loader.Categories(ctx, opts.FiscalYear)
	if err != nil {
		return spending.Dataset{}, err
	}

	records, err := loader.Amounts(ctx, opts.FiscalYear, table)
	if err != nil {
		return spending.Dataset{}, err
	}

	names := table.Names()
	names[spending.KindAgency] = spending.Consolidate(records, names[spending.KindAgency], opts.AgencyCutoff)

	return spending.Dataset{
		FiscalYear: opts.FiscalYear,
		Categories: names,
		Records:    records,
	}, nil
}

// BuildGraph assembles the layered flow graph from a dataset.
func (r *Runner) BuildGraph(dataset spending.Dataset) *sankey.Graph {
	return sankey.Build(dataset)
}

// ComputeLayout positions nodes and ribbons on the canvas in place.
func (r *Runner) ComputeLayout(g *sankey.Graph, opts Options) {
	opts.SetLayoutDefaults()
	sankey.Assign(g, opts.LayoutOptions())
	sankey.Balance(g, opts.Height)
}

// Render generates artifacts for each requested format. The graph must be
// positioned when an SVG of the sankey view is requested.
func (r *Runner) Render(g *sankey.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := r.renderFormat(g, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func (r *Runner) renderFormat(g *sankey.Graph, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := sankey.MarshalGraph(g)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph")
		}
		return data, nil

	case FormatDOT:
		return []byte(nodelink.ToDOT(g)), nil

	case FormatSVG:
		if opts.VizType == VizTypeNodelink {
			data, err := nodelink.RenderSVG(nodelink.ToDOT(g))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render node-link SVG")
			}
			return data, nil
		}
		return rendersvg.Render(g, rendersvg.Options{Width: opts.Width, Height: opts.Height}), nil

	default:
		return nil, ValidateFormat(format)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
