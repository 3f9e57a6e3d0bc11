package compose

// SelectionKind tags what a [Selection] refers to.
type SelectionKind string

// Selection kinds. The zero value selects nothing.
const (
	SelectNone SelectionKind = ""
	SelectNode SelectionKind = "node"
	SelectEdge SelectionKind = "edge"
)

// Selection identifies the element an editor has selected. It parameterizes
// [RemoveSelection] and is never stored in a document.
type Selection struct {
	Kind SelectionKind `json:"kind,omitempty"`
	ID   string        `json:"id,omitempty"`
}

// NodeSelection selects the node with the given id.
func NodeSelection(id string) Selection { return Selection{Kind: SelectNode, ID: id} }

// EdgeSelection selects the edge with the given id.
func EdgeSelection(id string) Selection { return Selection{Kind: SelectEdge, ID: id} }

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return s.Kind == SelectNone }
