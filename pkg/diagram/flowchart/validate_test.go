package flowchart

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/flowdoc/pkg/diagram"
)

func TestValidate(t *testing.T) {
	base := diagram.New(diagram.DirectionTD)
	base.Nodes = []diagram.Node{{ID: "A"}, {ID: "B"}}

	withEdges := func(es ...diagram.Edge) diagram.Document {
		d := base.Clone()
		d.Edges = es
		return d
	}

	tests := []struct {
		name string
		doc  diagram.Document
		want []diagram.ValidationIssue
	}{
		{
			name: "Clean",
			doc:  withEdges(diagram.Edge{ID: "e-1", Source: "A", Target: "B"}),
			want: []diagram.ValidationIssue{},
		},
		{
			name: "MissingTarget",
			doc:  withEdges(diagram.Edge{ID: "e-1", Source: "A", Target: "MISSING"}),
			want: []diagram.ValidationIssue{
				{Path: "edges.e-1.target", Message: "Unknown target node: MISSING"},
			},
		},
		{
			name: "BothMissing",
			doc: withEdges(
				diagram.Edge{ID: "e-1", Source: "A", Target: "B"},
				diagram.Edge{ID: "e-2", Source: "X", Target: "Y"},
			),
			want: []diagram.ValidationIssue{
				{Path: "edges.e-2.source", Message: "Unknown source node: X"},
				{Path: "edges.e-2.target", Message: "Unknown target node: Y"},
			},
		},
		{
			name: "NoEdges",
			doc:  base,
			want: []diagram.ValidationIssue{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.doc)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateDoesNotCheckDuplicates(t *testing.T) {
	doc := diagram.New(diagram.DirectionTD)
	doc.Nodes = []diagram.Node{{ID: "A"}, {ID: "A"}}
	doc.Edges = []diagram.Edge{{ID: "e-1", Source: "A", Target: "A"}, {ID: "e-1", Source: "A", Target: "A"}}
	if issues := Validate(doc); len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}

func TestValidateFirstMessageNamesTarget(t *testing.T) {
	doc := diagram.New(diagram.DirectionTD)
	doc.Nodes = []diagram.Node{{ID: "A"}}
	doc.Edges = []diagram.Edge{{ID: "e-1", Source: "A", Target: "MISSING"}}
	issues := Validate(doc)
	if len(issues) == 0 || !strings.Contains(issues[0].Message, "Unknown target node") {
		t.Errorf("issues = %v", issues)
	}
}
