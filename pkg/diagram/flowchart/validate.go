package flowchart

import (
	"fmt"

	"github.com/matzehuels/flowdoc/pkg/diagram"
)

// Validate reports edges whose endpoints name no node in doc, one issue per
// missing endpoint, in edge order. It checks nothing else.
func Validate(doc diagram.Document) []diagram.ValidationIssue {
	ids := doc.NodeIDs()
	issues := []diagram.ValidationIssue{}
	for _, e := range doc.Edges {
		if _, ok := ids[e.Source]; !ok {
			issues = append(issues, diagram.ValidationIssue{
				Path:    fmt.Sprintf("edges.%s.source", e.ID),
				Message: "Unknown source node: " + e.Source,
			})
		}
		if _, ok := ids[e.Target]; !ok {
			issues = append(issues, diagram.ValidationIssue{
				Path:    fmt.Sprintf("edges.%s.target", e.ID),
				Message: "Unknown target node: " + e.Target,
			})
		}
	}
	return issues
}
