package diagram

import "strings"

// Type is the diagram dialect named by the leading keyword of a source text.
type Type string

// Diagram types recognised by [Detect].
const (
	TypeFlowchart    Type = "flowchart"
	TypeSequence     Type = "sequence"
	TypeClass        Type = "class"
	TypeState        Type = "state"
	TypeER           Type = "er"
	TypeGantt        Type = "gantt"
	TypePie          Type = "pie"
	TypeGit          Type = "git"
	TypeMindmap      Type = "mindmap"
	TypeTimeline     Type = "timeline"
	TypeC4           Type = "c4"
	TypeArchitecture Type = "architecture"
	TypeBlock        Type = "block"
	TypeRequirement  Type = "requirement"
	TypeQuadrant     Type = "quadrant"
	TypeSankey       Type = "sankey"
	TypeXYChart      Type = "xychart"
	TypeRadar        Type = "radar"
	TypeKanban       Type = "kanban"
	TypeJourney      Type = "journey"
	TypePacket       Type = "packet"
	TypeUnknown      Type = "unknown"
)

// CommentPrefix starts a comment line in every dialect.
const CommentPrefix = "%%"

// keywords maps leading keywords to types. Order matters only where one
// keyword is a prefix of another at a word boundary, which none are.
var keywords = []struct {
	words []string
	typ   Type
}{
	{[]string{"flowchart", "graph"}, TypeFlowchart},
	{[]string{"sequenceDiagram"}, TypeSequence},
	{[]string{"classDiagram"}, TypeClass},
	{[]string{"stateDiagram"}, TypeState},
	{[]string{"erDiagram"}, TypeER},
	{[]string{"gantt"}, TypeGantt},
	{[]string{"pie"}, TypePie},
	{[]string{"gitGraph"}, TypeGit},
	{[]string{"mindmap"}, TypeMindmap},
	{[]string{"timeline"}, TypeTimeline},
	{[]string{"C4Context", "C4Container", "C4Component", "C4Dynamic", "C4Deployment"}, TypeC4},
	{[]string{"architecture-beta"}, TypeArchitecture},
	{[]string{"block-beta"}, TypeBlock},
	{[]string{"requirementDiagram"}, TypeRequirement},
	{[]string{"quadrantChart"}, TypeQuadrant},
	{[]string{"sankey-beta"}, TypeSankey},
	{[]string{"xychart-beta"}, TypeXYChart},
	{[]string{"radar-beta"}, TypeRadar},
	{[]string{"kanban"}, TypeKanban},
	{[]string{"journey"}, TypeJourney},
	{[]string{"packet-beta"}, TypePacket},
}

// Detect classifies text by the keyword that starts its first non-blank,
// non-comment line. Matching is case-insensitive and the keyword must end
// at a word boundary, so "stateDiagram-v2" is a state diagram but
// "pieChart" is unknown.
func Detect(text string) Type {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
			continue
		}
		for _, k := range keywords {
			for _, w := range k.words {
				if HasKeyword(trimmed, w) {
					return k.typ
				}
			}
		}
		return TypeUnknown
	}
	return TypeUnknown
}

// HasKeyword reports whether s starts with keyword (case-insensitive)
// followed by end of input or a non-word character.
func HasKeyword(s, keyword string) bool {
	if len(s) < len(keyword) || !strings.EqualFold(s[:len(keyword)], keyword) {
		return false
	}
	return len(s) == len(keyword) || !IsWordByte(s[len(keyword)])
}

// IsWordByte reports whether b is an ASCII letter, digit or underscore.
func IsWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
