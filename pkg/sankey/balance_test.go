package sankey

import (
	"math"
	"testing"
)

// layerGraph builds a single-layer graph with the given node heights
// stacked from y=0 without gaps.
func layerGraph(layer int, heights ...float64) *Graph {
	g := &Graph{}
	y := 0.0
	for _, h := range heights {
		g.Nodes = append(g.Nodes, &Node{Layer: layer, Y0: y, Y1: y + h})
		y += h
	}
	return g
}

func TestBalanceSpacing(t *testing.T) {
	// Two nodes of height 100 on a canvas of height 1000:
	// spacing = (1000-200)/3, first y0 = 266.67, second y0 = 633.33.
	g := layerGraph(LayerObjectClass, 100, 100)
	Balance(g, 1000)

	spacing := 800.0 / 3.0
	if got := g.Nodes[0].Y0; !almostEqual(got, spacing) {
		t.Errorf("first y0 = %v, want %v", got, spacing)
	}
	if got := g.Nodes[1].Y0; !almostEqual(got, spacing+100+spacing) {
		t.Errorf("second y0 = %v, want %v", got, spacing+100+spacing)
	}
	if got := g.Nodes[0].Height(); !almostEqual(got, 100) {
		t.Errorf("height changed to %v", got)
	}
}

func TestBalanceGapsEqual(t *testing.T) {
	const height = 900.0
	heights := []float64{50, 120, 30, 75}
	g := layerGraph(LayerAgency, heights...)
	Balance(g, height)

	occupied := 0.0
	for _, h := range heights {
		occupied += h
	}
	want := (height - occupied) / float64(len(heights)+1)

	gaps := []float64{g.Nodes[0].Y0}
	for i := 1; i < len(g.Nodes); i++ {
		gaps = append(gaps, g.Nodes[i].Y0-g.Nodes[i-1].Y1)
	}
	gaps = append(gaps, height-g.Nodes[len(g.Nodes)-1].Y1)

	sum := 0.0
	for i, gap := range gaps {
		if !almostEqual(gap, want) {
			t.Errorf("gap %d = %v, want %v", i, gap, want)
		}
		sum += gap
	}
	if !almostEqual(sum, height-occupied) {
		t.Errorf("gap sum = %v, want %v", sum, height-occupied)
	}
}

func TestBalanceIdempotent(t *testing.T) {
	g := layerGraph(LayerBudgetFunction, 80, 40, 160)
	Balance(g, 1000)

	before := make([]float64, len(g.Nodes))
	for i, n := range g.Nodes {
		before[i] = n.Y0
	}

	Balance(g, 1000)

	for i, n := range g.Nodes {
		if math.Abs(n.Y0-before[i]) > eps {
			t.Errorf("node %d moved from %v to %v on second pass", i, before[i], n.Y0)
		}
	}
}

func TestBalancePropagatesToRibbons(t *testing.T) {
	g := Build(testDataset())
	Assign(g, testOptions())

	type offsets struct{ out, in []float64 }
	rel := make(map[*Node]offsets)
	for _, n := range g.Nodes {
		var o offsets
		for _, e := range n.Out {
			o.out = append(o.out, e.Y0-n.Y0)
		}
		for _, e := range n.In {
			o.in = append(o.in, e.Y1-n.Y0)
		}
		rel[n] = o
	}

	Balance(g, testOptions().Height)

	// Ribbon ends keep their offset relative to the node they attach to.
	for _, n := range g.Nodes {
		for i, e := range n.Out {
			if !almostEqual(e.Y0-n.Y0, rel[n].out[i]) {
				t.Errorf("node %s outgoing ribbon %d detached: offset %v, want %v",
					n.Name, i, e.Y0-n.Y0, rel[n].out[i])
			}
		}
		for i, e := range n.In {
			if !almostEqual(e.Y1-n.Y0, rel[n].in[i]) {
				t.Errorf("node %s incoming ribbon %d detached: offset %v, want %v",
					n.Name, i, e.Y1-n.Y0, rel[n].in[i])
			}
		}
	}
}

func TestBalanceSkipsEmptyLayers(t *testing.T) {
	// Only one layer populated; the empty layers must not produce NaN or
	// panic.
	g := layerGraph(LayerAgency, 100)
	Balance(g, 500)

	n := g.Nodes[0]
	if math.IsNaN(n.Y0) || math.IsInf(n.Y0, 0) {
		t.Fatalf("y0 = %v after balancing with empty layers", n.Y0)
	}
	if !almostEqual(n.Y0, 200) {
		t.Errorf("single node y0 = %v, want 200", n.Y0)
	}
}

func TestBalanceZeroHeightNode(t *testing.T) {
	g := layerGraph(LayerAgency, 100, 0, 100)
	Balance(g, 800)

	spacing := (800.0 - 200.0) / 4.0
	if got := g.Nodes[1].Y0; !almostEqual(got, spacing+100+spacing) {
		t.Errorf("zero-height node y0 = %v, want %v", got, spacing+100+spacing)
	}
	if !almostEqual(g.Nodes[1].Height(), 0) {
		t.Errorf("zero-height node grew to %v", g.Nodes[1].Height())
	}
}
