// Package sankey builds and positions the weighted flow graph behind the
// spending diagram.
//
// The graph is a strict 4-layer DAG: a synthetic root, then one node per
// object class, budget function, and agency. Edges only connect adjacent
// layers and each edge carries the path of category names it represents,
// which doubles as its aggregation filter: edge weights are always
// recomputed by scanning the flat record list with the path as a filter.
// That brute-force re-aggregation is intentional — the lists are tens of
// entries long and the label-driven sums make every invariant directly
// testable.
package sankey

import (
	"github.com/budgetflow/budgetflow/pkg/spending"
)

// Layer indices of the flow graph.
const (
	LayerRoot           = 0
	LayerObjectClass    = 1
	LayerBudgetFunction = 2
	LayerAgency         = 3

	// NumLayers is the fixed depth of the graph.
	NumLayers = 4
)

// RootName is the display name of the synthetic total node.
const RootName = "Total"

// Node is one visual node of the diagram. Value and the coordinate fields
// are zero until layout assigns them; Y0/Y1 move again during balancing.
type Node struct {
	Name  string
	Layer int
	Value float64

	X0, X1 float64 // horizontal extent (layer band)
	Y0, Y1 float64 // vertical extent

	Out []*Edge // edges leaving this node (source end)
	In  []*Edge // edges entering this node (target end)
}

// Height returns the node's vertical extent.
func (n *Node) Height() float64 { return n.Y1 - n.Y0 }

// Edge is a directed weighted ribbon between nodes in adjacent layers.
// Path holds 1–3 category names depending on depth and is the edge's
// identity: parallel edges between the same nodes with different paths
// stay separate.
type Edge struct {
	Source *Node
	Target *Node
	Path   []string
	Value  float64

	Width  float64 // ribbon thickness, assigned by layout
	Y0, Y1 float64 // ribbon center y at the source / target end
}

// Graph is the full node and edge list. Node order within a layer follows
// category table order; edge order follows construction order.
type Graph struct {
	Nodes []*Node
	Edges []*Edge
}

// Layer returns the nodes of one layer in insertion order.
func (g *Graph) Layer(layer int) []*Node {
	var nodes []*Node
	for _, n := range g.Nodes {
		if n.Layer == layer {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Sum aggregates the records matched by a path prefix: one name filters
// by object class, two add the budget function, three add the agency.
func Sum(records []spending.Record, path ...string) float64 {
	total := 0.0
	for _, r := range records {
		if len(path) > 0 && r.ObjectClass != path[0] {
			continue
		}
		if len(path) > 1 && r.BudgetFunction != path[1] {
			continue
		}
		if len(path) > 2 && r.Agency != path[2] {
			continue
		}
		total += r.Amount
	}
	return total
}

// Build constructs the flow graph from a cleaned dataset. It is fully
// deterministic: node order mirrors the dataset's category order and every
// edge weight is recomputed from the record list.
//
// Root edges are created unconditionally, one per object class. Deeper
// edges exist only where the constrained sum is strictly positive, so a
// zero-volume path never appears in the graph.
func Build(d spending.Dataset) *Graph {
	g := &Graph{}

	root := &Node{Name: RootName, Layer: LayerRoot}
	g.Nodes = append(g.Nodes, root)

	byLayer := [NumLayers]map[string]*Node{}
	for _, kind := range []struct {
		kind  spending.Kind
		layer int
	}{
		{spending.KindObjectClass, LayerObjectClass},
		{spending.KindBudgetFunction, LayerBudgetFunction},
		{spending.KindAgency, LayerAgency},
	} {
		index := make(map[string]*Node, len(d.Categories[kind.kind]))
		for _, name := range d.Categories[kind.kind] {
			n := &Node{Name: name, Layer: kind.layer}
			g.Nodes = append(g.Nodes, n)
			index[name] = n
		}
		byLayer[kind.layer] = index
	}

	objectClasses := d.Categories[spending.KindObjectClass]
	budgetFunctions := d.Categories[spending.KindBudgetFunction]
	agencies := d.Categories[spending.KindAgency]

	for _, oc := range objectClasses {
		g.addEdge(root, byLayer[LayerObjectClass][oc], Sum(d.Records, oc), []string{oc})
	}

	for _, oc := range objectClasses {
		for _, bf := range budgetFunctions {
			if w := Sum(d.Records, oc, bf); w > 0 {
				g.addEdge(byLayer[LayerObjectClass][oc], byLayer[LayerBudgetFunction][bf], w, []string{oc, bf})
			}
		}
	}

	for _, oc := range objectClasses {
		for _, bf := range budgetFunctions {
			for _, ag := range agencies {
				if w := Sum(d.Records, oc, bf, ag); w > 0 {
					g.addEdge(byLayer[LayerBudgetFunction][bf], byLayer[LayerAgency][ag], w, []string{oc, bf, ag})
				}
			}
		}
	}

	return g
}

func (g *Graph) addEdge(source, target *Node, value float64, path []string) {
	e := &Edge{Source: source, Target: target, Path: path, Value: value}
	source.Out = append(source.Out, e)
	target.In = append(target.In, e)
	g.Edges = append(g.Edges, e)
}
