// Package pipeline provides the core fetch → graph → layout → render
// pipeline for BudgetFlow.
//
// The pipeline consists of four stages:
//
//  1. Fetch: Pull spending categories and amounts from the USAspending API
//  2. BuildGraph: Assemble the layered flow graph and consolidate agencies
//  3. ComputeLayout: Position nodes and ribbons on the canvas
//  4. Render: Generate output in various formats (SVG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline:
//
//	runner := pipeline.NewRunner(client, logger)
//	opts := pipeline.Options{FiscalYear: "2024", Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/budgetflow/budgetflow/pkg/errors"
	"github.com/budgetflow/budgetflow/pkg/sankey"
	"github.com/budgetflow/budgetflow/pkg/spending"
)

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 800.0

	// DefaultNodeWidth is the default width of a node's connector stub.
	DefaultNodeWidth = 15.0

	// DefaultNodePadding is the default vertical gap between stacked nodes.
	DefaultNodePadding = 10.0

	// DefaultAgencyCutoff is how many agencies are kept before the rest
	// collapse into the Other bucket.
	DefaultAgencyCutoff = 18
)

// Visualization types.
const (
	VizTypeSankey   = "sankey"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeSankey

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeSankey:   true,
	VizTypeNodelink: true,
}

// Options contains all configuration for the visualization pipeline.
type Options struct {
	// Fetch options
	FiscalYear string `json:"fiscal_year,omitempty"`

	// Graph options
	AgencyCutoff int `json:"agency_cutoff,omitempty"`

	// Layout options
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	NodeWidth   float64 `json:"node_width,omitempty"`
	NodePadding float64 `json:"node_padding,omitempty"`

	// Render options
	VizType string   `json:"viz_type,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the fetched spending data.
	Dataset spending.Dataset

	// Graph is the layered flow graph, positioned if layout ran.
	Graph *sankey.Graph

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount int
	NodeCount   int
	EdgeCount   int
	FetchTime   time.Duration
	GraphTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType,
			"invalid viz_type: %q (must be one of: sankey, nodelink)", vizType)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks and defaults the fields the fetch stage uses.
// An unset fiscal year defaults to the current federal fiscal year.
func (o *Options) ValidateForFetch() error {
	if o.FiscalYear == "" {
		o.FiscalYear = CurrentFiscalYear(time.Now())
	}
	if err := spending.ValidateFiscalYear(o.FiscalYear); err != nil {
		return err
	}
	if o.AgencyCutoff == 0 {
		o.AgencyCutoff = DefaultAgencyCutoff
	}
	if o.AgencyCutoff < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"agency cutoff must be positive, got %d", o.AgencyCutoff)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodePadding == 0 {
		o.NodePadding = DefaultNodePadding
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// LayoutOptions returns the sankey layout options derived from o.
func (o *Options) LayoutOptions() sankey.Options {
	return sankey.Options{
		Width:       o.Width,
		Height:      o.Height,
		NodeWidth:   o.NodeWidth,
		NodePadding: o.NodePadding,
	}
}

// CurrentFiscalYear returns the US federal fiscal year containing t.
// The federal fiscal year starts on October 1 of the prior calendar year.
func CurrentFiscalYear(t time.Time) string {
	year := t.Year()
	if t.Month() >= time.October {
		year++
	}
	return spending.FiscalYear(year)
}
