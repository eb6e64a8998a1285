package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/pidlayout/pkg/diagram"
)

// Options selects optional layers.
type Options struct {
	Instruments bool
	Annotations bool
}

// AllLayers draws everything.
var AllLayers = Options{Instruments: true, Annotations: true}

// categoryShapes maps equipment categories to Graphviz node shapes.
var categoryShapes = map[diagram.Category]string{
	diagram.CategoryPump:          "circle",
	diagram.CategoryVessel:        "cylinder",
	diagram.CategoryColumn:        "box",
	diagram.CategoryHeatExchanger: "ellipse",
	diagram.CategoryCompressor:    "trapezium",
	diagram.CategorySeparator:     "box3d",
	diagram.CategoryReactor:       "doubleoctagon",
}

var lineStyles = map[diagram.LineStyle]string{
	diagram.LineSolid:  "solid",
	diagram.LineDashed: "dashed",
	diagram.LineDotted: "dotted",
}

// ToDOT converts d to pinned-position DOT source.
func ToDOT(d *diagram.Diagram, opts Options) string {
	flip := func(p diagram.Point) string {
		return fmt.Sprintf("%.1f,%.1f!", p.X, d.Canvas.Height-p.Y)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph P {\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=white;\n")
	if d.Metadata.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", d.Metadata.Title)
	}
	buf.WriteString("  node [fixedsize=true, fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n\n")

	// Invisible corner anchors keep the canvas extent in the output.
	fmt.Fprintf(&buf, "  \"_origin\" [shape=point, style=invis, pos=%q];\n", flip(diagram.Point{}))
	fmt.Fprintf(&buf, "  \"_extent\" [shape=point, style=invis, pos=%q];\n\n",
		flip(diagram.Point{X: d.Canvas.Width, Y: d.Canvas.Height}))

	for _, n := range d.Equipment {
		shape, ok := categoryShapes[n.Category]
		if !ok {
			shape = "box"
		}
		fmt.Fprintf(&buf, "  %q [shape=%s, label=%q, width=%.3f, height=%.3f, pos=%q];\n",
			n.Tag, shape, n.Tag, n.Size.Width/72, n.Size.Height/72, flip(n.Position))
	}

	if opts.Instruments {
		buf.WriteString("\n")
		for _, inst := range d.Instruments {
			fmt.Fprintf(&buf, "  %q [shape=circle, label=%q, width=0.42, fontsize=7, pos=%q];\n",
				"inst:"+inst.Tag, inst.Tag, flip(inst.Position))
		}
	}

	if opts.Annotations {
		buf.WriteString("\n")
		for _, a := range d.Annotations {
			shape := "plaintext"
			if a.Fixed {
				shape = "box"
			}
			fmt.Fprintf(&buf, "  %q [shape=%s, label=%q, width=%.3f, height=%.3f, fontsize=8, pos=%q];\n",
				"note:"+a.ID, shape, a.Text, a.Box.Width/72, a.Box.Height/72, flip(a.Box.Center()))
		}
	}

	buf.WriteString("\n")
	for i, r := range d.Routes {
		writeRoute(&buf, r, fmt.Sprintf("pipe%d", i), r.From, r.To, r.LineNumber, "normal", flip)
	}
	if opts.Instruments {
		for i, r := range d.SignalRoutes {
			writeRoute(&buf, r, fmt.Sprintf("signal%d", i), r.From, "inst:"+r.To, "", "none", flip)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// writeRoute draws r as a chain of straight edges through its interior
// waypoints, each pinned as an invisible point node named bend:<key>:<n>.
// The first and last waypoints sit on the endpoint nodes' connection
// points, so the chain starts and ends at the nodes themselves. Only the
// last edge carries arrowhead, except that routes with flow arrows mark
// every segment.
func writeRoute(buf *bytes.Buffer, r diagram.Route, key, from, to, label, arrowhead string, flip func(diagram.Point) string) {
	stops := []string{from}
	if len(r.Waypoints) > 2 {
		for n, p := range r.Waypoints[1 : len(r.Waypoints)-1] {
			name := fmt.Sprintf("bend:%s:%d", key, n)
			fmt.Fprintf(buf, "  %q [shape=point, width=0.01, style=invis, pos=%q];\n", name, flip(p))
			stops = append(stops, name)
		}
	}
	stops = append(stops, to)

	last := len(stops) - 2
	for i := 0; i <= last; i++ {
		segLabel := ""
		if i == 0 {
			segLabel = label
		}
		head := arrowhead
		if i < last && (arrowhead == "none" || len(r.FlowArrows) == 0) {
			head = "none"
		}
		fmt.Fprintf(buf, "  %q -> %q [%s, arrowhead=%s];\n", stops[i], stops[i+1], edgeAttrs(r, segLabel), head)
	}
}

func edgeAttrs(r diagram.Route, label string) string {
	style, ok := lineStyles[r.LineStyle]
	if !ok {
		style = "dashed"
	}
	attrs := []string{
		fmt.Sprintf("style=%s", style),
		fmt.Sprintf("penwidth=%.1f", max(r.LineWidth, 1)),
	}
	if label != "" {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", label), "fontsize=8")
	}
	return strings.Join(attrs, ", ")
}
