package flowchart

import (
	"strings"

	"github.com/matzehuels/flowdoc/pkg/diagram"
)

// =============================================================================
// Statements
// =============================================================================

// statement is one classified source line. Exactly one of the concrete
// types below is produced per content line.
type statement interface {
	isStatement()
}

type directionStmt struct {
	dir diagram.Direction
}

type nodeStmt struct {
	node endpoint
}

type edgeStmt struct {
	from, to endpoint
	label    string
	style    diagram.EdgeStyle
}

type unsupportedStmt struct {
	text string
}

func (directionStmt) isStatement()   {}
func (nodeStmt) isStatement()        {}
func (edgeStmt) isStatement()        {}
func (unsupportedStmt) isStatement() {}

// endpoint is an id with an optional bracketed label. A bare id has no
// shape; brackets holding only whitespace give a shape and an empty label.
type endpoint struct {
	id    string
	label string
	shape diagram.Shape
}

func (e endpoint) bare() bool { return e.shape == "" }

// =============================================================================
// Token Tables
// =============================================================================

// Flowchart keywords accepted in the direction declaration.
var directionKeywords = []string{"flowchart", "graph"}

// bracketOrder is the order in which opening brackets are tried; "[[" must
// precede "[".
var bracketOrder = []diagram.Shape{
	diagram.ShapeStadium,
	diagram.ShapeRect,
	diagram.ShapeRound,
	diagram.ShapeDiamond,
}

// brackets returns the opening and closing tokens for a shape.
func brackets(s diagram.Shape) (open, close string) {
	switch s {
	case diagram.ShapeStadium:
		return "[[", "]]"
	case diagram.ShapeRound:
		return "(", ")"
	case diagram.ShapeDiamond:
		return "{", "}"
	case diagram.ShapeRect:
		return "[", "]"
	default:
		return "[", "]"
	}
}

// labelTerminators may not appear inside a bracketed label.
const labelTerminators = "])}"

// arrowOrder is the order in which arrow tokens are tried at a position.
var arrowOrder = []diagram.EdgeStyle{
	diagram.EdgeDotted,
	diagram.EdgeSolid,
	diagram.EdgeThick,
}

// Arrows returns the arrow tokens in the order the parser tries them.
func Arrows() []string {
	out := make([]string, len(arrowOrder))
	for i, st := range arrowOrder {
		out[i] = arrow(st)
	}
	return out
}

// arrow returns the arrow token for an edge style. The empty style is solid.
func arrow(s diagram.EdgeStyle) string {
	switch s {
	case diagram.EdgeDotted:
		return "-.->"
	case diagram.EdgeThick:
		return "==>"
	case diagram.EdgeSolid, "":
		return "-->"
	default:
		return "-->"
	}
}

// =============================================================================
// Line Classification
// =============================================================================

// classify turns a trimmed content line into a statement. When first is
// true the line is also checked for a direction declaration. raw is the
// untrimmed line, kept verbatim for unsupported statements.
func classify(trimmed, raw string, first bool) statement {
	if first {
		if dir, ok := scanDirection(trimmed); ok {
			return directionStmt{dir: dir}
		}
	}
	if n, ok := scanNode(trimmed); ok {
		return nodeStmt{node: n}
	}
	if e, ok := scanEdge(trimmed); ok {
		return e
	}
	return unsupportedStmt{text: raw}
}

// scanDirection matches "<flowchart|graph> <TB|TD|BT|RL|LR>" case-insensitively.
// The direction must end at a word boundary; anything after it is ignored.
func scanDirection(s string) (diagram.Direction, bool) {
	for _, kw := range directionKeywords {
		if len(s) <= len(kw) || !strings.EqualFold(s[:len(kw)], kw) {
			continue
		}
		sc := scanner{src: s, pos: len(kw)}
		if !sc.skipSpace() {
			continue
		}
		rest := sc.rest()
		if len(rest) < 2 || (len(rest) > 2 && diagram.IsWordByte(rest[2])) {
			continue
		}
		if dir, ok := diagram.ParseDirection(rest[:2]); ok {
			return dir, true
		}
	}
	return "", false
}

// scanNode matches a node declaration: an id followed by a bracket pair.
func scanNode(s string) (endpoint, bool) {
	ep, ok := scanEndpoint(s)
	if !ok || ep.bare() {
		return endpoint{}, false
	}
	return ep, true
}

// scanEdge matches "<endpoint> <arrow> [|label|] <endpoint>" with exactly
// one arrow token on the line.
func scanEdge(s string) (edgeStmt, bool) {
	idx, tok, style, ok := findArrow(s, 0)
	if !ok {
		return edgeStmt{}, false
	}
	if _, _, _, again := findArrow(s, idx+len(tok)); again {
		return edgeStmt{}, false
	}

	left := strings.TrimSpace(s[:idx])
	right := strings.TrimSpace(s[idx+len(tok):])

	var label string
	if rest, lbl, ok := cutEdgeLabel(right); ok {
		right, label = rest, lbl
	}

	from, ok := scanEndpoint(left)
	if !ok {
		return edgeStmt{}, false
	}
	to, ok := scanEndpoint(right)
	if !ok {
		return edgeStmt{}, false
	}
	return edgeStmt{from: from, to: to, label: label, style: style}, true
}

// cutEdgeLabel splits "|label| rest" into rest and the trimmed label.
// The label must be non-empty and rest must be non-blank.
func cutEdgeLabel(s string) (rest, label string, ok bool) {
	if !strings.HasPrefix(s, "|") {
		return s, "", false
	}
	end := strings.IndexByte(s[1:], '|')
	if end <= 0 {
		return s, "", false
	}
	rest = strings.TrimSpace(s[end+2:])
	if rest == "" {
		return s, "", false
	}
	return rest, strings.TrimSpace(s[1 : end+1]), true
}

// findArrow returns the first arrow token at or after from.
func findArrow(s string, from int) (idx int, tok string, style diagram.EdgeStyle, ok bool) {
	for i := from; i < len(s); i++ {
		for _, st := range arrowOrder {
			t := arrow(st)
			if strings.HasPrefix(s[i:], t) {
				return i, t, st, true
			}
		}
	}
	return -1, "", "", false
}

// scanEndpoint matches a whole string as a bare id or an id with one
// bracket pair. The closing bracket must match the opening one.
func scanEndpoint(s string) (endpoint, bool) {
	sc := scanner{src: s}
	id, ok := sc.ident()
	if !ok {
		return endpoint{}, false
	}
	sc.skipSpace()
	if sc.done() {
		return endpoint{id: id}, true
	}

	mark := sc.pos
	for _, shape := range bracketOrder {
		sc.pos = mark
		label, ok := sc.bracketed(shape)
		if !ok {
			continue
		}
		sc.skipSpace()
		if sc.done() {
			return endpoint{id: id, label: label, shape: shape}, true
		}
	}
	return endpoint{}, false
}

// =============================================================================
// Scanner
// =============================================================================

// scanner walks a single line byte by byte.
type scanner struct {
	src string
	pos int
}

func (sc *scanner) done() bool   { return sc.pos >= len(sc.src) }
func (sc *scanner) rest() string { return sc.src[sc.pos:] }

// skipSpace advances over ASCII whitespace and reports whether any was skipped.
func (sc *scanner) skipSpace() bool {
	start := sc.pos
	for !sc.done() && isSpace(sc.src[sc.pos]) {
		sc.pos++
	}
	return sc.pos > start
}

// ident consumes an identifier: [A-Za-z_][A-Za-z0-9_-]*.
func (sc *scanner) ident() (string, bool) {
	start := sc.pos
	if sc.done() {
		return "", false
	}
	c := sc.src[sc.pos]
	if !(c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')) {
		return "", false
	}
	sc.pos++
	for !sc.done() && (diagram.IsWordByte(sc.src[sc.pos]) || sc.src[sc.pos] == '-') {
		sc.pos++
	}
	return sc.src[start:sc.pos], true
}

// bracketed consumes open, a non-empty label free of closing brackets, and
// the close token matching shape. The returned label is trimmed and may be
// empty when the brackets enclose only whitespace.
func (sc *scanner) bracketed(shape diagram.Shape) (string, bool) {
	open, close := brackets(shape)
	if !strings.HasPrefix(sc.rest(), open) {
		return "", false
	}
	start := sc.pos + len(open)
	end := strings.IndexAny(sc.src[start:], labelTerminators)
	if end <= 0 {
		return "", false
	}
	end += start
	if !strings.HasPrefix(sc.src[end:], close) {
		return "", false
	}
	sc.pos = end + len(close)
	return strings.TrimSpace(sc.src[start:end]), true
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}
