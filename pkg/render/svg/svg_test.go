package svg

import (
	"strings"
	"testing"

	"github.com/budgetflow/budgetflow/pkg/sankey"
	"github.com/budgetflow/budgetflow/pkg/spending"
)

func renderedFixture(t *testing.T) string {
	t.Helper()
	d := spending.Dataset{
		FiscalYear: "2024",
		Categories: map[spending.Kind][]string{
			spending.KindObjectClass:    {"Personnel"},
			spending.KindBudgetFunction: {"Health & Safety"},
			spending.KindAgency:         {"HHS", spending.OtherAgency},
		},
		Records: []spending.Record{
			{ObjectClass: "Personnel", BudgetFunction: "Health & Safety", Agency: "HHS", Amount: 1234567},
		},
	}
	g := sankey.Build(d)
	opts := sankey.Options{Width: 1200, Height: 800, NodeWidth: 15, NodePadding: 10}
	sankey.Assign(g, opts)
	sankey.Balance(g, opts.Height)
	return string(Render(g, Options{Width: opts.Width, Height: opts.Height}))
}

func TestRender(t *testing.T) {
	out := renderedFixture(t)

	if !strings.HasPrefix(out, "<svg xmlns=") {
		t.Fatalf("output does not start with svg element: %.60q", out)
	}
	if !strings.Contains(out, `viewBox="0 0 1200.0 800.0"`) {
		t.Error("viewBox missing or wrong size")
	}
	if !strings.Contains(out, "<path d=\"M") {
		t.Error("no ribbon paths rendered")
	}
	if !strings.Contains(out, "<rect ") {
		t.Error("no connector stubs rendered")
	}
	if !strings.Contains(out, "Personnel") || !strings.Contains(out, "HHS") {
		t.Error("node labels missing")
	}
	if !strings.Contains(out, "$1,234,567") {
		t.Error("US-formatted currency label missing")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("document not closed")
	}
}

func TestRenderEscapesNames(t *testing.T) {
	out := renderedFixture(t)

	if strings.Contains(out, "Health & Safety<") {
		t.Error("unescaped ampersand in label")
	}
	if !strings.Contains(out, "Health &amp; Safety") {
		t.Error("escaped category name missing")
	}
}

func TestRenderZeroHeightBucket(t *testing.T) {
	// The empty Other bucket must not produce NaN coordinates.
	out := renderedFixture(t)

	if strings.Contains(out, "NaN") || strings.Contains(out, "Inf") {
		t.Error("non-finite coordinates in output")
	}
	if !strings.Contains(out, spending.OtherAgency) {
		t.Error("Other bucket label missing")
	}
}
