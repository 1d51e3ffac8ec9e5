// Package svg renders a positioned spending flow graph as an SVG
// document: one curved ribbon per edge colored by its object class,
// connector stubs at each node band, and name + dollar labels.
package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/budgetflow/budgetflow/pkg/render"
	"github.com/budgetflow/budgetflow/pkg/sankey"
)

// Options controls the rendered document.
type Options struct {
	Width  float64
	Height float64
}

const (
	ribbonOpacity = 0.45
	stubFill      = "#333333"
	labelGap      = 6.0
	fontSize      = 11
)

// palette colors ribbons by top-level category, cycling when there are
// more object classes than colors.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Render draws the graph at its assigned coordinates. The graph is not
// modified; Assign and Balance must have run first.
func Render(g *sankey.Graph, opts Options) []byte {
	colors := colorByObjectClass(g)

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	buf.WriteString("  <g fill=\"none\">\n")
	for _, e := range g.Edges {
		renderRibbon(&buf, e, colors[e.Path[0]])
	}
	buf.WriteString("  </g>\n")
	for _, n := range g.Nodes {
		renderStub(&buf, n)
	}
	for _, n := range g.Nodes {
		renderLabel(&buf, n)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// colorByObjectClass assigns palette colors in object-class table order.
// Every edge path starts with its object class, so this keys all ribbons.
func colorByObjectClass(g *sankey.Graph) map[string]string {
	colors := make(map[string]string)
	for i, n := range g.Layer(sankey.LayerObjectClass) {
		colors[n.Name] = palette[i%len(palette)]
	}
	return colors
}

// renderRibbon draws an edge as a cubic Bézier from the source's right
// face to the target's left face, with horizontally centered control
// points. Stroke width carries the flow volume.
func renderRibbon(buf *bytes.Buffer, e *sankey.Edge, color string) {
	x0 := e.Source.X1
	x1 := e.Target.X0
	mid := (x0 + x1) / 2
	width := max(e.Width, 1)

	fmt.Fprintf(buf,
		"    <path d=\"M%.2f,%.2f C%.2f,%.2f %.2f,%.2f %.2f,%.2f\" stroke=%q stroke-width=\"%.2f\" stroke-opacity=\"%.2f\"><title>%s: %s</title></path>\n",
		x0, e.Y0, mid, e.Y0, mid, e.Y1, x1, e.Y1,
		color, width, ribbonOpacity,
		escape(strings.Join(e.Path, " → ")), render.FormatUSD(e.Value))
}

// renderStub draws the short connector rectangle covering the node band.
// Zero-height nodes (an empty consolidation bucket) emit a zero-height
// rect, which is simply invisible.
func renderStub(buf *bytes.Buffer, n *sankey.Node) {
	fmt.Fprintf(buf,
		"  <rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=%q/>\n",
		n.X0, n.Y0, n.X1-n.X0, n.Height(), stubFill)
}

// renderLabel writes the node name and its formatted total. Labels sit to
// the right of the band except on the last layer, where they flip left to
// stay inside the canvas.
func renderLabel(buf *bytes.Buffer, n *sankey.Node) {
	x := n.X1 + labelGap
	anchor := "start"
	if n.Layer == sankey.LayerAgency {
		x = n.X0 - labelGap
		anchor = "end"
	}
	y := (n.Y0+n.Y1)/2 + float64(fontSize)/2 - 1

	fmt.Fprintf(buf,
		"  <text x=\"%.2f\" y=\"%.2f\" text-anchor=%q font-family=\"sans-serif\" font-size=\"%d\">%s <tspan fill=\"#777777\">%s</tspan></text>\n",
		x, y, anchor, fontSize, escape(n.Name), render.FormatUSD(n.Value))
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return escaper.Replace(s) }
