package flowchart

import (
	"strings"

	"github.com/matzehuels/flowdoc/pkg/diagram"
)

// Warning messages emitted by [Parse].
const (
	msgMissingDirection = "Missing flowchart/graph directive; assuming TD"
	msgUnsupportedLine  = "Line is preserved in text mode but not editable in visual mode."
)

// Parse converts flowchart source text into a normalized document. It never
// fails: lines it does not understand are preserved as unsupported blocks
// and reported as warnings.
func Parse(text string) diagram.ParseResult {
	p := parser{
		doc:   diagram.New(diagram.DefaultDirection),
		index: make(map[string]int),
	}
	for i, raw := range strings.Split(text, "\n") {
		p.line(i+1, raw)
	}
	warnings := p.warnings
	if warnings == nil {
		warnings = []diagram.ParseWarning{}
	}
	return diagram.ParseResult{Doc: Normalize(p.doc), Warnings: warnings}
}

// parser accumulates a document line by line.
type parser struct {
	doc      diagram.Document
	index    map[string]int // node id -> position in doc.Nodes
	warnings []diagram.ParseWarning
	started  bool
}

func (p *parser) line(n int, raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, diagram.CommentPrefix) {
		return
	}

	first := !p.started
	p.started = true

	stmt := classify(trimmed, raw, first)
	if _, ok := stmt.(directionStmt); first && !ok {
		p.warn(n, diagram.WarnLossyParse, msgMissingDirection)
	}

	switch st := stmt.(type) {
	case directionStmt:
		p.doc.Direction = st.dir
	case nodeStmt:
		p.declare(st.node)
	case edgeStmt:
		p.declare(st.from)
		p.declare(st.to)
		p.doc.Edges = append(p.doc.Edges, diagram.Edge{
			ID:     diagram.EdgeID(len(p.doc.Edges) + 1),
			Source: st.from.id,
			Target: st.to.id,
			Label:  st.label,
			Style:  st.style,
		})
	case unsupportedStmt:
		p.doc.RawBlocks = append(p.doc.RawBlocks, diagram.UnsupportedBlock{
			ID:         diagram.RawBlockID(len(p.doc.RawBlocks) + 1),
			SourceText: st.text,
			Reason:     diagram.ReasonUnsupportedFeature,
			Line:       n,
		})
		p.warn(n, diagram.WarnUnsupportedBlock, msgUnsupportedLine)
	}
}

// declare creates the node on first mention and merges later mentions.
// A later mention only contributes a non-empty label and a non-rect shape.
func (p *parser) declare(ep endpoint) {
	if i, ok := p.index[ep.id]; ok {
		node := &p.doc.Nodes[i]
		if ep.label != "" {
			node.Label = ep.label
		}
		if !ep.bare() && ep.shape != diagram.ShapeRect {
			node.Shape = ep.shape
		}
		return
	}

	shape := ep.shape
	if ep.bare() {
		shape = diagram.ShapeRect
	}
	x, y := diagram.GridPosition(len(p.doc.Nodes))
	p.index[ep.id] = len(p.doc.Nodes)
	p.doc.Nodes = append(p.doc.Nodes, diagram.NewNode(ep.id, ep.label, shape, x, y))
}

func (p *parser) warn(line int, code diagram.WarningCode, msg string) {
	p.warnings = append(p.warnings, diagram.ParseWarning{Line: line, Message: msg, Code: code})
}
