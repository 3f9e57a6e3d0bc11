// Package compose provides the graph-editing operations behind the visual
// editor.
//
// Every function takes a document value and returns a new one; the input is
// never written through, so a caller can keep the previous document for undo.
// Operations that would break an invariant (a self-loop, a duplicate edge, an
// unknown id) do nothing and return the input document, and connect reports
// the refusal through its boolean result.
//
// Operations never renumber or reorder existing ids. Callers that want
// canonical output run the result through flowchart.Serialize, which
// normalizes first.
package compose

import (
	"github.com/matzehuels/flowdoc/pkg/diagram"
)

// NextNodeID returns the lowest unused id of the form N<n>, n >= 1.
func NextNodeID(nodes []diagram.Node) string {
	used := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		used[n.ID] = struct{}{}
	}
	return lowestUnused(used, diagram.NodeID)
}

// NextEdgeID returns the lowest unused id of the form e-<n>, n >= 1.
func NextEdgeID(edges []diagram.Edge) string {
	used := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		used[e.ID] = struct{}{}
	}
	return lowestUnused(used, diagram.EdgeID)
}

func lowestUnused(used map[string]struct{}, format func(int) string) string {
	for n := 1; ; n++ {
		if id := format(n); !has(used, id) {
			return id
		}
	}
}

func has(set map[string]struct{}, k string) bool {
	_, ok := set[k]
	return ok
}

// AddNode appends a rect node labelled with its own id at the next grid slot.
func AddNode(doc diagram.Document) (diagram.Document, string) {
	x, y := diagram.GridPosition(len(doc.Nodes))
	return addNode(doc, x, y)
}

// AddNodeAt appends a rect node at (x, y) snapped to the grid pitch.
func AddNodeAt(doc diagram.Document, x, y float64) (diagram.Document, string) {
	return addNode(doc, diagram.Snap(x), diagram.Snap(y))
}

func addNode(doc diagram.Document, x, y float64) (diagram.Document, string) {
	id := NextNodeID(doc.Nodes)
	out := doc.Clone()
	out.Nodes = append(out.Nodes, diagram.NewNode(id, id, diagram.ShapeRect, x, y))
	return out, id
}

// UpdateNodePosition moves node id to (x, y) snapped to the grid pitch.
func UpdateNodePosition(doc diagram.Document, id string, x, y float64) diagram.Document {
	return updateNode(doc, id, func(n *diagram.Node) {
		n.X, n.Y = diagram.Snap(x), diagram.Snap(y)
	})
}

// UpdateNodeLabel sets the label of node id verbatim.
func UpdateNodeLabel(doc diagram.Document, id, label string) diagram.Document {
	return updateNode(doc, id, func(n *diagram.Node) { n.Label = label })
}

// UpdateNodeShape sets the shape of node id. Unknown shapes are ignored.
func UpdateNodeShape(doc diagram.Document, id string, shape diagram.Shape) diagram.Document {
	if !shape.Valid() {
		return doc
	}
	return updateNode(doc, id, func(n *diagram.Node) { n.Shape = shape })
}

// UpdateEdgeLabel sets the label of edge id; an empty label removes it.
func UpdateEdgeLabel(doc diagram.Document, id, label string) diagram.Document {
	return updateEdge(doc, id, func(e *diagram.Edge) { e.Label = label })
}

// UpdateEdgeStyle sets the style of edge id. Unknown styles are ignored.
func UpdateEdgeStyle(doc diagram.Document, id string, style diagram.EdgeStyle) diagram.Document {
	if style == "" || !style.Valid() {
		return doc
	}
	return updateEdge(doc, id, func(e *diagram.Edge) { e.Style = style })
}

// UpdateDirection replaces the layout direction. Node positions are kept.
// An invalid direction is ignored.
func UpdateDirection(doc diagram.Document, dir diagram.Direction) diagram.Document {
	if !dir.Valid() {
		return doc
	}
	out := doc.Clone()
	out.Direction = dir
	return out
}

// ConnectNodes appends a solid edge from source to target and returns its
// id. It refuses self-loops and an existing edge with the same ordered pair,
// returning doc unchanged and ok == false. Endpoints are not required to
// exist; see flowchart.Validate.
func ConnectNodes(doc diagram.Document, source, target string) (out diagram.Document, id string, ok bool) {
	if source == target {
		return doc, "", false
	}
	for _, e := range doc.Edges {
		if e.Source == source && e.Target == target {
			return doc, "", false
		}
	}
	id = NextEdgeID(doc.Edges)
	out = doc.Clone()
	out.Edges = append(out.Edges, diagram.Edge{
		ID:     id,
		Source: source,
		Target: target,
		Style:  diagram.EdgeSolid,
	})
	return out, id, true
}

// RemoveSelection deletes the selected element. Removing a node also removes
// every edge that starts or ends at it. An empty selection is a no-op.
func RemoveSelection(doc diagram.Document, sel Selection) diagram.Document {
	switch sel.Kind {
	case SelectNode:
		out := doc.Clone()
		out.Nodes = out.Nodes[:0]
		for _, n := range doc.Nodes {
			if n.ID != sel.ID {
				out.Nodes = append(out.Nodes, n)
			}
		}
		out.Edges = keepEdges(doc.Edges, func(e diagram.Edge) bool {
			return e.Source != sel.ID && e.Target != sel.ID
		})
		return out
	case SelectEdge:
		out := doc.Clone()
		out.Edges = keepEdges(doc.Edges, func(e diagram.Edge) bool { return e.ID != sel.ID })
		return out
	default:
		return doc
	}
}

func keepEdges(edges []diagram.Edge, keep func(diagram.Edge) bool) []diagram.Edge {
	out := make([]diagram.Edge, 0, len(edges))
	for _, e := range edges {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func updateNode(doc diagram.Document, id string, edit func(*diagram.Node)) diagram.Document {
	if !doc.HasNode(id) {
		return doc
	}
	out := doc.Clone()
	for i := range out.Nodes {
		if out.Nodes[i].ID == id {
			edit(&out.Nodes[i])
		}
	}
	return out
}

func updateEdge(doc diagram.Document, id string, edit func(*diagram.Edge)) diagram.Document {
	if _, ok := doc.Edge(id); !ok {
		return doc
	}
	out := doc.Clone()
	for i := range out.Edges {
		if out.Edges[i].ID == id {
			edit(&out.Edges[i])
		}
	}
	return out
}
