package sankey

// Balance re-centers every layer so its nodes are evenly spaced across
// the full canvas height, replacing the compact packing Assign produces.
//
// For each layer the free space (height minus the sum of node heights) is
// split into count+1 equal gaps. Nodes keep their order and height; each
// node's delta is propagated to the source end of its outgoing ribbons
// and the target end of its incoming ribbons, so ribbons stay attached.
//
// Layers with no nodes are skipped explicitly. Balancing an already
// balanced graph moves nothing (deltas are ~0), so the operation is
// idempotent up to floating-point noise.
//
// Balance mutates the graph in place.
func Balance(g *Graph, height float64) {
	for layer := 0; layer < NumLayers; layer++ {
		nodes := g.Layer(layer)
		if len(nodes) == 0 {
			continue
		}

		occupied := 0.0
		for _, n := range nodes {
			occupied += n.Height()
		}
		spacing := (height - occupied) / float64(len(nodes)+1)

		cursor := spacing
		for _, n := range nodes {
			delta := cursor - n.Y0
			n.Y0 += delta
			n.Y1 += delta
			for _, e := range n.Out {
				e.Y0 += delta
			}
			for _, e := range n.In {
				e.Y1 += delta
			}
			cursor = n.Y1 + spacing
		}
	}
}
