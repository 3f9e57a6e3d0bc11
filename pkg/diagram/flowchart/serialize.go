package flowchart

import (
	"strings"

	"github.com/matzehuels/flowdoc/pkg/diagram"
)

// PreservedMarker introduces the verbatim unsupported lines in serialized output.
const PreservedMarker = "%% Preserved unsupported lines"

const indent = "  "

// Serialize renders doc as canonical flowchart source. The document is
// normalized first, so the output depends only on its content. Lines are
// joined with "\n" and there is no trailing newline.
func Serialize(doc diagram.Document) string {
	doc = Normalize(doc)

	dir := doc.Direction
	if !dir.Valid() {
		dir = diagram.DefaultDirection
	}

	lines := make([]string, 0, 1+len(doc.Nodes)+len(doc.Edges)+2+len(doc.RawBlocks))
	lines = append(lines, "flowchart "+string(dir))
	for _, n := range doc.Nodes {
		lines = append(lines, indent+NodeSyntax(n))
	}
	for _, e := range doc.Edges {
		lines = append(lines, indent+EdgeSyntax(e))
	}
	if len(doc.RawBlocks) > 0 {
		lines = append(lines, "", PreservedMarker)
		for _, b := range doc.RawBlocks {
			lines = append(lines, b.SourceText)
		}
	}
	return strings.Join(lines, "\n")
}

// NodeSyntax returns the declaration for n, such as "A[Start]" or "B{Check}".
func NodeSyntax(n diagram.Node) string {
	open, close := brackets(n.Shape)
	return n.ID + open + flatten(n.DisplayLabel()) + close
}

// EdgeSyntax returns the declaration for e, such as "A -.-> |maybe| B".
func EdgeSyntax(e diagram.Edge) string {
	var b strings.Builder
	b.WriteString(e.Source)
	b.WriteByte(' ')
	b.WriteString(arrow(e.Style))
	b.WriteByte(' ')
	if label := flatten(e.Label); label != "" {
		b.WriteByte('|')
		b.WriteString(label)
		b.WriteString("| ")
	}
	b.WriteString(e.Target)
	return b.String()
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// flatten keeps labels on a single line.
func flatten(s string) string {
	return lineBreaks.Replace(s)
}
