package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/flowdoc/pkg/diagram"
)

var rankDirs = map[diagram.Direction]string{
	diagram.DirectionTB: "TB",
	diagram.DirectionTD: "TB",
	diagram.DirectionBT: "BT",
	diagram.DirectionLR: "LR",
	diagram.DirectionRL: "RL",
}

// ToDOT converts doc to Graphviz DOT using the palette of theme. Unsupported
// blocks are not drawn. Node positions are ignored; Graphviz computes its
// own layout in the document's direction.
func ToDOT(doc diagram.Document, theme Theme) string {
	p := paletteFor(theme)
	rankdir, ok := rankDirs[doc.Direction]
	if !ok {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", p.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=filled, fillcolor=%q, color=%q, fontcolor=%q, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n",
		p.NodeFill, p.NodeStroke, p.Font)
	fmt.Fprintf(&buf, "  edge [color=%q, fontcolor=%q, fontname=\"Helvetica\", fontsize=12, arrowsize=0.8];\n",
		p.Edge, p.EdgeFont)
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("\n")

	for _, n := range doc.Nodes {
		attrs := append([]string{fmt.Sprintf("label=%q", n.DisplayLabel())}, shapeAttrs(n.Shape)...)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if len(doc.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range doc.Edges {
		attrs := edgeAttrs(e.Style)
		if e.Label != "" {
			attrs = append([]string{fmt.Sprintf("label=%q", e.Label)}, attrs...)
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func shapeAttrs(s diagram.Shape) []string {
	switch s {
	case diagram.ShapeRound:
		return []string{`style="rounded,filled"`}
	case diagram.ShapeDiamond:
		return []string{"shape=diamond"}
	case diagram.ShapeStadium:
		return []string{"shape=box", `style="rounded,filled"`, "peripheries=2"}
	default:
		return nil
	}
}

func edgeAttrs(s diagram.EdgeStyle) []string {
	switch s {
	case diagram.EdgeDotted:
		return []string{"style=dashed"}
	case diagram.EdgeThick:
		return []string{"penwidth=2.5"}
	default:
		return nil
	}
}
