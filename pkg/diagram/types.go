package diagram

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// Constants
// =============================================================================

// Version is the document format version tag.
const Version = "1"

// Kind tags the diagram dialect a document models.
type Kind string

// KindFlowchart is the only structurally modeled kind.
const KindFlowchart Kind = "flowchart"

// Direction is the layout direction of a flowchart.
type Direction string

// Layout directions. TB and TD are synonyms in the source language but are
// kept distinct so that text round-trips unchanged.
const (
	DirectionTB Direction = "TB"
	DirectionTD Direction = "TD"
	DirectionBT Direction = "BT"
	DirectionRL Direction = "RL"
	DirectionLR Direction = "LR"
)

// DefaultDirection is assumed when the source does not declare one.
const DefaultDirection = DirectionTD

// Directions lists every valid direction in declaration order.
var Directions = []Direction{DirectionTB, DirectionTD, DirectionBT, DirectionRL, DirectionLR}

// ParseDirection converts s (case-insensitive) to a Direction.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	return d, d.Valid()
}

// Valid reports whether d is one of the five layout directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionTB, DirectionTD, DirectionBT, DirectionRL, DirectionLR:
		return true
	}
	return false
}

// Shape is the visual shape of a node.
type Shape string

// Node shapes and their bracket syntax.
const (
	ShapeRect    Shape = "rect"    // A[label]
	ShapeRound   Shape = "round"   // A(label)
	ShapeDiamond Shape = "diamond" // A{label}
	ShapeStadium Shape = "stadium" // A[[label]]
)

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	switch s {
	case ShapeRect, ShapeRound, ShapeDiamond, ShapeStadium:
		return true
	}
	return false
}

// EdgeStyle is the line style of an edge. The zero value means unset and
// serializes like [EdgeSolid].
type EdgeStyle string

// Edge styles and their arrow tokens.
const (
	EdgeSolid  EdgeStyle = "solid"  // -->
	EdgeDotted EdgeStyle = "dotted" // -.->
	EdgeThick  EdgeStyle = "thick"  // ==>
)

// Valid reports whether s is a known style. The empty style is valid.
func (s EdgeStyle) Valid() bool {
	switch s {
	case "", EdgeSolid, EdgeDotted, EdgeThick:
		return true
	}
	return false
}

// BlockReason explains why a source line was preserved opaquely.
type BlockReason string

// Reasons for unsupported blocks.
const (
	ReasonUnknownSyntax      BlockReason = "unknown_syntax"
	ReasonUnsupportedFeature BlockReason = "unsupported_feature"
)

// WarningCode distinguishes advisory parse warnings.
type WarningCode string

// Warning codes.
const (
	// WarnUnsupportedBlock marks a line that is preserved but not editable.
	WarnUnsupportedBlock WarningCode = "UNSUPPORTED_BLOCK"
	// WarnLossyParse marks a structural assumption, such as a defaulted direction.
	WarnLossyParse WarningCode = "LOSSY_PARSE"
)

// =============================================================================
// Document
// =============================================================================

// Document is the root of the editable graph model.
//
// Invariants: node ids are unique, edge ids are unique (guaranteed after
// normalization) and node sizes are non-negative. Edge endpoints are not
// guaranteed to exist; see the flowchart validator.
type Document struct {
	Version   string             `json:"version" bson:"version"`
	Kind      Kind               `json:"kind" bson:"kind"`
	Direction Direction          `json:"direction" bson:"direction"`
	Nodes     []Node             `json:"nodes" bson:"nodes"`
	Edges     []Edge             `json:"edges" bson:"edges"`
	Subgraphs []Subgraph         `json:"subgraphs" bson:"subgraphs"`
	RawBlocks []UnsupportedBlock `json:"rawBlocks" bson:"rawBlocks"`
}

// Node is a shaped, positioned vertex.
type Node struct {
	ID     string  `json:"id" bson:"id"`
	Label  string  `json:"label" bson:"label"`
	Shape  Shape   `json:"shape" bson:"shape"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed connection between two node ids.
type Edge struct {
	ID     string    `json:"id" bson:"id"`
	Source string    `json:"source" bson:"source"`
	Target string    `json:"target" bson:"target"`
	Label  string    `json:"label,omitempty" bson:"label,omitempty"`
	Style  EdgeStyle `json:"style,omitempty" bson:"style,omitempty"`
}

// Subgraph groups nodes under a title. The parser does not populate it yet.
type Subgraph struct {
	ID      string   `json:"id" bson:"id"`
	Title   string   `json:"title" bson:"title"`
	NodeIDs []string `json:"nodeIds" bson:"nodeIds"`
}

// UnsupportedBlock is a source line kept verbatim because the grammar does
// not understand it. Line is 1-based; zero means unknown.
type UnsupportedBlock struct {
	ID         string      `json:"id" bson:"id"`
	SourceText string      `json:"sourceText" bson:"sourceText"`
	Reason     BlockReason `json:"reason" bson:"reason"`
	Line       int         `json:"line,omitempty" bson:"line,omitempty"`
}

// ParseWarning is advisory feedback attached to a source line.
type ParseWarning struct {
	Line    int         `json:"line,omitempty"`
	Message string      `json:"message"`
	Code    WarningCode `json:"code"`
}

// ParseResult pairs a parsed document with its warnings.
type ParseResult struct {
	Doc      Document       `json:"doc"`
	Warnings []ParseWarning `json:"warnings"`
}

// ValidationIssue describes an integrity problem at a path-like location
// such as "edges.e-1.target".
type ValidationIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// New returns an empty flowchart document with the given direction.
// An invalid direction falls back to [DefaultDirection].
func New(dir Direction) Document {
	if !dir.Valid() {
		dir = DefaultDirection
	}
	return Document{
		Version:   Version,
		Kind:      KindFlowchart,
		Direction: dir,
		Nodes:     []Node{},
		Edges:     []Edge{},
		Subgraphs: []Subgraph{},
		RawBlocks: []UnsupportedBlock{},
	}
}

// Clone returns a deep copy of d. Nil collections become empty.
func (d Document) Clone() Document {
	out := d
	out.Nodes = append(make([]Node, 0, len(d.Nodes)), d.Nodes...)
	out.Edges = append(make([]Edge, 0, len(d.Edges)), d.Edges...)
	out.RawBlocks = append(make([]UnsupportedBlock, 0, len(d.RawBlocks)), d.RawBlocks...)
	out.Subgraphs = make([]Subgraph, len(d.Subgraphs))
	for i, sg := range d.Subgraphs {
		sg.NodeIDs = append([]string{}, sg.NodeIDs...)
		out.Subgraphs[i] = sg
	}
	return out
}

// Node returns the node with the given id.
func (d Document) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasNode reports whether a node with the given id exists.
func (d Document) HasNode(id string) bool {
	_, ok := d.Node(id)
	return ok
}

// Edge returns the edge with the given id.
func (d Document) Edge(id string) (Edge, bool) {
	for _, e := range d.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// NodeIDs returns the set of node ids in d.
func (d Document) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}

// MarshalJSON encodes nil collections as empty arrays.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	p := plain(d)
	if p.Nodes == nil {
		p.Nodes = []Node{}
	}
	if p.Edges == nil {
		p.Edges = []Edge{}
	}
	if p.Subgraphs == nil {
		p.Subgraphs = []Subgraph{}
	}
	if p.RawBlocks == nil {
		p.RawBlocks = []UnsupportedBlock{}
	}
	return json.Marshal(p)
}

// MarshalJSON encodes a nil node list as an empty array.
func (s Subgraph) MarshalJSON() ([]byte, error) {
	type plain Subgraph
	p := plain(s)
	if p.NodeIDs == nil {
		p.NodeIDs = []string{}
	}
	return json.Marshal(p)
}

// MarshalJSON encodes a nil warning list as an empty array.
func (r ParseResult) MarshalJSON() ([]byte, error) {
	type plain ParseResult
	p := plain(r)
	if p.Warnings == nil {
		p.Warnings = []ParseWarning{}
	}
	return json.Marshal(p)
}
