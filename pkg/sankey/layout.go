package sankey

// Options holds the canvas geometry for layout.
type Options struct {
	Width       float64 // canvas width
	Height      float64 // canvas height
	NodeWidth   float64 // horizontal thickness of a node band
	NodePadding float64 // vertical gap between stacked nodes
}

// Assign computes the initial layout: node values from edge sums, layer
// x-bands across the canvas, value-proportional node heights stacked in
// table order, and ribbon endpoints distributed along each node's extent.
//
// The vertical scale is chosen so the fullest layer fits the canvas with
// its padding; zero-value nodes (a consolidation bucket with no records)
// get zero height. Balance evens out the packing afterwards.
func Assign(g *Graph, opts Options) {
	assignValues(g)

	ky := scale(g, opts)

	for layer := 0; layer < NumLayers; layer++ {
		nodes := g.Layer(layer)

		x0 := 0.0
		if NumLayers > 1 {
			x0 = float64(layer) * (opts.Width - opts.NodeWidth) / float64(NumLayers-1)
		}

		y := 0.0
		for _, n := range nodes {
			n.X0 = x0
			n.X1 = x0 + opts.NodeWidth
			n.Y0 = y
			n.Y1 = y + n.Value*ky
			y = n.Y1 + opts.NodePadding
		}
	}

	for _, e := range g.Edges {
		e.Width = e.Value * ky
	}

	assignEndpoints(g)
}

// assignValues derives each node's total: the root carries the sum of its
// outgoing edges, every other node the larger of its incoming and
// outgoing sums (they are equal except at the agency layer, which has no
// outgoing edges).
func assignValues(g *Graph) {
	for _, n := range g.Nodes {
		in, out := 0.0, 0.0
		for _, e := range n.In {
			in += e.Value
		}
		for _, e := range n.Out {
			out += e.Value
		}
		n.Value = max(in, out)
	}
}

// scale returns the value-to-pixels factor that fits the tightest layer.
func scale(g *Graph, opts Options) float64 {
	ky := 0.0
	for layer := 0; layer < NumLayers; layer++ {
		nodes := g.Layer(layer)
		if len(nodes) == 0 {
			continue
		}
		total := 0.0
		for _, n := range nodes {
			total += n.Value
		}
		if total <= 0 {
			continue
		}
		avail := opts.Height - opts.NodePadding*float64(len(nodes)-1)
		if avail < 0 {
			avail = 0
		}
		if k := avail / total; ky == 0 || k < ky {
			ky = k
		}
	}
	return ky
}

// assignEndpoints spreads each node's ribbons across its vertical extent,
// outgoing along the right face and incoming along the left, in edge
// construction order.
func assignEndpoints(g *Graph) {
	for _, n := range g.Nodes {
		y := n.Y0
		for _, e := range n.Out {
			e.Y0 = y + e.Width/2
			y += e.Width
		}
		y = n.Y0
		for _, e := range n.In {
			e.Y1 = y + e.Width/2
			y += e.Width
		}
	}
}
