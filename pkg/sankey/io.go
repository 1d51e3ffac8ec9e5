package sankey

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// graphJSON is the serialization form of a Graph. Edges reference nodes
// by index so the pointer-linked structure round-trips cleanly.
type graphJSON struct {
	Nodes []nodeJSON `json:"nodes"`
	Edges []edgeJSON `json:"edges"`
}

type nodeJSON struct {
	Name  string `json:"name"`
	Layer int    `json:"layer"`
}

type edgeJSON struct {
	Source int      `json:"source"`
	Target int      `json:"target"`
	Path   []string `json:"path"`
	Value  float64  `json:"value"`
}

// MarshalGraph serializes a graph to indented JSON. Only structure and
// weights are stored; coordinates are recomputed on load.
func MarshalGraph(g *Graph) ([]byte, error) {
	out := graphJSON{
		Nodes: make([]nodeJSON, len(g.Nodes)),
		Edges: make([]edgeJSON, len(g.Edges)),
	}

	index := make(map[*Node]int, len(g.Nodes))
	for i, n := range g.Nodes {
		out.Nodes[i] = nodeJSON{Name: n.Name, Layer: n.Layer}
		index[n] = i
	}
	for i, e := range g.Edges {
		out.Edges[i] = edgeJSON{
			Source: index[e.Source],
			Target: index[e.Target],
			Path:   e.Path,
			Value:  e.Value,
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

// UnmarshalGraph rebuilds a graph from its JSON form, rewiring edge
// pointers and node adjacency lists.
func UnmarshalGraph(data []byte) (*Graph, error) {
	var in graphJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}

	g := &Graph{Nodes: make([]*Node, len(in.Nodes))}
	for i, n := range in.Nodes {
		g.Nodes[i] = &Node{Name: n.Name, Layer: n.Layer}
	}
	for _, e := range in.Edges {
		if e.Source < 0 || e.Source >= len(g.Nodes) || e.Target < 0 || e.Target >= len(g.Nodes) {
			return nil, fmt.Errorf("edge %v references unknown node", e.Path)
		}
		g.addEdge(g.Nodes[e.Source], g.Nodes[e.Target], e.Value, e.Path)
	}
	return g, nil
}

// WriteGraphFile writes a graph to a JSON file with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalGraph(data)
}
