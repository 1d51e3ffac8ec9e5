// Package cli implements the budgetflow command-line interface.
//
// This package provides commands for fetching federal spending data from
// the USAspending API, building the layered flow graph, and rendering it
// as a Sankey diagram. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - fetch: Download spending data for a fiscal year
//   - graph: Build the flow graph from a fetched dataset
//   - render: Render a graph file to SVG, JSON, or DOT
//   - generate: Run the complete fetch → graph → render pipeline
//   - cache: Manage the API response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/budgetflow/budgetflow/pkg/buildinfo"
	"github.com/budgetflow/budgetflow/pkg/config"
	"github.com/budgetflow/budgetflow/pkg/httputil"
	"github.com/budgetflow/budgetflow/pkg/pipeline"
	"github.com/budgetflow/budgetflow/pkg/usaspending"
)

const (
	// appName is the application name used for directories and display.
	appName = "budgetflow"

	// cacheTTL bounds how long API responses are reused. Spending data for
	// a closed fiscal year changes rarely, but in-year figures are revised.
	cacheTTL = 24 * time.Hour
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *charmlog.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to stderr at info level.
func New() *CLI {
	return &CLI{Logger: newLogger(os.Stderr, charmlog.InfoLevel)}
}

// RootCommand creates the root cobra command with all subcommands
// registered. The logger is attached to the command context so every
// RunE can retrieve it with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "BudgetFlow visualizes federal spending as a Sankey diagram",
		Long:         `BudgetFlow fetches U.S. federal spending data from the USAspending API and renders how money flows from object classes through budget functions to agencies.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.Logger.SetLevel(charmlog.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/budgetflow/config.toml)")

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use. Caching is disabled
// either on request or when the cache directory cannot be created.
func (c *CLI) newRunner(baseURL string, noCache bool) *pipeline.Runner {
	var cache *httputil.Cache
	if !noCache {
		dir, err := cacheDir()
		if err == nil {
			cache, err = httputil.NewCache(dir, cacheTTL)
		}
		if err != nil {
			printWarning("Response caching disabled: %v", err)
		}
	}
	return pipeline.NewRunner(usaspending.NewClient(baseURL, cache), c.Logger)
}

// loadOptions merges the config file into pipeline options. Values the
// user set via flags are non-zero and take precedence; config fills the
// rest and pipeline defaults cover whatever remains.
func (c *CLI) loadOptions(opts *pipeline.Options) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if opts.FiscalYear == "" {
		opts.FiscalYear = cfg.FiscalYear
	}
	if opts.Width == 0 {
		opts.Width = cfg.Width
	}
	if opts.Height == 0 {
		opts.Height = cfg.Height
	}
	if opts.NodeWidth == 0 {
		opts.NodeWidth = cfg.NodeWidth
	}
	if opts.NodePadding == 0 {
		opts.NodePadding = cfg.NodePadding
	}
	if opts.AgencyCutoff == 0 {
		opts.AgencyCutoff = cfg.AgencyCutoff
	}
	opts.Logger = c.Logger
	return cfg, nil
}

// cacheDir returns the cache directory using the XDG convention
// (~/.cache/budgetflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input paths,
// stripping a known format extension when present.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
