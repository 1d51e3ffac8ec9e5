package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/budgetflow/budgetflow/pkg/pipeline"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New().RootCommand()

	want := []string{"fetch", "graph", "render", "generate", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"Default", "", []string{"svg"}},
		{"Single", "json", []string{"json"}},
		{"Multiple", "svg,dot", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"DerivedFromInput", "", "spending_2024.json", "spending_2024"},
		{"StripsFormatExt", "out.svg", "ignored.json", "out"},
		{"KeepsOtherExt", "report.final", "ignored.json", "report.final"},
		{"PlainBase", "fy24", "ignored.json", "fy24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", appName) {
		t.Errorf("cacheDir = %q, want XDG-based path", dir)
	}
}

func TestNewRunnerSurvivesCacheFailure(t *testing.T) {
	// Point the cache directory under a regular file so creating it fails;
	// the runner must still come up, just without caching.
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CACHE_HOME", file)

	if r := New().newRunner("http://localhost:0", false); r == nil {
		t.Fatal("newRunner returned nil")
	}
}

func TestLoadOptionsConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "fiscal_year = \"2022\"\nwidth = 1600.0\nagency_cutoff = 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New()
	c.configPath = path

	// Flag-set values survive, config fills the rest.
	opts := pipeline.Options{FiscalYear: "2024"}
	if _, err := c.loadOptions(&opts); err != nil {
		t.Fatalf("loadOptions: %v", err)
	}

	if opts.FiscalYear != "2024" {
		t.Errorf("FiscalYear = %q, flag value should win over config", opts.FiscalYear)
	}
	if opts.Width != 1600 {
		t.Errorf("Width = %v, want 1600 from config", opts.Width)
	}
	if opts.AgencyCutoff != 5 {
		t.Errorf("AgencyCutoff = %v, want 5 from config", opts.AgencyCutoff)
	}
	if opts.Height != 0 {
		t.Errorf("Height = %v, want 0 (left for pipeline defaults)", opts.Height)
	}
}
