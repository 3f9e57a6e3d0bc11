package compose

import (
	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/errors"
)

// OpKind names an editing operation in its serialized form.
type OpKind string

// Editing operations accepted by [Apply].
const (
	OpAddNode      OpKind = "add_node"
	OpAddNodeAt    OpKind = "add_node_at"
	OpMoveNode     OpKind = "move_node"
	OpLabelNode    OpKind = "label_node"
	OpShapeNode    OpKind = "shape_node"
	OpLabelEdge    OpKind = "label_edge"
	OpStyleEdge    OpKind = "style_edge"
	OpConnect      OpKind = "connect"
	OpRemove       OpKind = "remove"
	OpSetDirection OpKind = "direction"
)

// OpKinds lists every operation in declaration order.
var OpKinds = []OpKind{
	OpAddNode, OpAddNodeAt, OpMoveNode, OpLabelNode, OpShapeNode,
	OpLabelEdge, OpStyleEdge, OpConnect, OpRemove, OpSetDirection,
}

// Op is a serializable editing intent, as sent by the HTTP API or built from
// CLI flags. Only the fields used by Op are read:
//
//	{"op": "add_node_at", "x": 103, "y": 117}
//	{"op": "connect", "source": "A", "target": "B"}
//	{"op": "remove", "selection": {"kind": "node", "id": "A"}}
type Op struct {
	Op        OpKind            `json:"op" validate:"required"`
	ID        string            `json:"id,omitempty"`
	X         float64           `json:"x,omitempty"`
	Y         float64           `json:"y,omitempty"`
	Label     string            `json:"label,omitempty"`
	Shape     diagram.Shape     `json:"shape,omitempty"`
	Style     diagram.EdgeStyle `json:"style,omitempty"`
	Source    string            `json:"source,omitempty"`
	Target    string            `json:"target,omitempty"`
	Direction diagram.Direction `json:"direction,omitempty"`
	Selection Selection         `json:"selection,omitzero"`
}

// Result is the outcome of [Apply].
type Result struct {
	Doc diagram.Document `json:"doc"`
	// ID is the id allocated by add and connect operations.
	ID string `json:"id,omitempty"`
	// Applied is false when the operation was refused or addressed an
	// unknown element; Doc is then the input document.
	Applied bool `json:"applied"`
}

// Apply performs op on doc. It returns an error only for malformed
// operations: an unknown op name or an invalid shape, style or direction.
// Refusals such as self-loops are reported through Result.Applied.
func Apply(doc diagram.Document, op Op) (Result, error) {
	switch op.Op {
	case OpAddNode:
		out, id := AddNode(doc)
		return Result{Doc: out, ID: id, Applied: true}, nil

	case OpAddNodeAt:
		out, id := AddNodeAt(doc, op.X, op.Y)
		return Result{Doc: out, ID: id, Applied: true}, nil

	case OpMoveNode:
		return nodeResult(doc, op.ID, UpdateNodePosition(doc, op.ID, op.X, op.Y)), nil

	case OpLabelNode:
		return nodeResult(doc, op.ID, UpdateNodeLabel(doc, op.ID, op.Label)), nil

	case OpShapeNode:
		if !op.Shape.Valid() {
			return Result{Doc: doc}, errors.New(errors.ErrCodeInvalidInput, "invalid shape %q", op.Shape)
		}
		return nodeResult(doc, op.ID, UpdateNodeShape(doc, op.ID, op.Shape)), nil

	case OpLabelEdge:
		return edgeResult(doc, op.ID, UpdateEdgeLabel(doc, op.ID, op.Label)), nil

	case OpStyleEdge:
		if op.Style == "" || !op.Style.Valid() {
			return Result{Doc: doc}, errors.New(errors.ErrCodeInvalidInput, "invalid edge style %q", op.Style)
		}
		return edgeResult(doc, op.ID, UpdateEdgeStyle(doc, op.ID, op.Style)), nil

	case OpConnect:
		out, id, ok := ConnectNodes(doc, op.Source, op.Target)
		return Result{Doc: out, ID: id, Applied: ok}, nil

	case OpRemove:
		return Result{Doc: RemoveSelection(doc, op.Selection), Applied: selects(doc, op.Selection)}, nil

	case OpSetDirection:
		dir, ok := diagram.ParseDirection(string(op.Direction))
		if !ok {
			return Result{Doc: doc}, errors.New(errors.ErrCodeInvalidDirection, "invalid direction %q", op.Direction)
		}
		return Result{Doc: UpdateDirection(doc, dir), Applied: true}, nil

	default:
		return Result{Doc: doc}, errors.New(errors.ErrCodeInvalidInput, "unknown operation %q", op.Op)
	}
}

func nodeResult(in diagram.Document, id string, out diagram.Document) Result {
	return Result{Doc: out, Applied: in.HasNode(id)}
}

func edgeResult(in diagram.Document, id string, out diagram.Document) Result {
	_, ok := in.Edge(id)
	return Result{Doc: out, Applied: ok}
}

// selects reports whether sel names an element present in doc.
func selects(doc diagram.Document, sel Selection) bool {
	switch sel.Kind {
	case SelectNode:
		return doc.HasNode(sel.ID)
	case SelectEdge:
		_, ok := doc.Edge(sel.ID)
		return ok
	default:
		return false
	}
}
