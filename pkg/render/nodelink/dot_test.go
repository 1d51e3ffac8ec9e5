package nodelink

import (
	"strings"
	"testing"

	"github.com/budgetflow/budgetflow/pkg/sankey"
	"github.com/budgetflow/budgetflow/pkg/spending"
)

func testGraph() *sankey.Graph {
	d := spending.Dataset{
		FiscalYear: "2024",
		Categories: map[spending.Kind][]string{
			spending.KindObjectClass:    {"Personnel"},
			spending.KindBudgetFunction: {"Health"},
			spending.KindAgency:         {"HHS"},
		},
		Records: []spending.Record{
			{ObjectClass: "Personnel", BudgetFunction: "Health", Agency: "HHS", Amount: 1234567},
		},
	}
	return sankey.Build(d)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph())

	if !strings.HasPrefix(dot, "digraph spending {") {
		t.Fatalf("unexpected header: %.40q", dot)
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("missing left-to-right rank direction")
	}
	if !strings.Contains(dot, `"1/Personnel"`) || !strings.Contains(dot, `"3/HHS"`) {
		t.Error("layer-qualified node IDs missing")
	}
	if !strings.Contains(dot, `"0/Total" -> "1/Personnel"`) {
		t.Error("root edge missing")
	}
	if !strings.Contains(dot, "$1,234,567") {
		t.Error("formatted amounts missing from labels")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("graph not closed")
	}
}

func TestToDOTQuotesNames(t *testing.T) {
	g := testGraph()
	g.Nodes[1].Name = `Grants "block"`

	dot := ToDOT(g)
	if !strings.Contains(dot, `\"block\"`) {
		t.Error("quotes in names not escaped")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 120.75 60.25" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 120.75 60.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="121" height="60"`) {
		t.Errorf("pixel size not derived from viewBox: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg><g/></svg>`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("document without viewBox was modified: %s", got)
	}
}
