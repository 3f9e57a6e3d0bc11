package flowchart

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/flowdoc/pkg/diagram"
)

func edges(pairs ...string) []diagram.Edge {
	var out []diagram.Edge
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, diagram.Edge{ID: pairs[i], Source: pairs[i+1], Target: "T"})
	}
	return out
}

func TestNormalizeEdgeIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []diagram.Edge
		want []diagram.Edge
	}{
		{
			name: "BlankAndDuplicates",
			in:   edges("", "a", "e-1", "b", "e-1", "c", "  ", "d", "x", "e"),
			want: edges("e-1", "a", "e-2", "b", "e-3", "c", "e-4", "d", "x", "e"),
		},
		{
			name: "DuplicateSeededAtOwnIndex",
			in:   edges("e-2", "a", "e-2", "b", "e-1", "c"),
			want: edges("e-1", "c", "e-2", "a", "e-3", "b"),
		},
		{
			name: "BlankCollidesWithExisting",
			in:   edges("e-2", "a", "", "b"),
			want: edges("e-2", "a", "e-3", "b"),
		},
		{
			name: "TrimsIDs",
			in:   edges(" e-5 ", "a"),
			want: edges("e-5", "a"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := diagram.New(diagram.DirectionTD)
			doc.Edges = tt.in
			got := Normalize(doc)
			if diff := cmp.Diff(tt.want, got.Edges); diff != "" {
				t.Errorf("edges mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeOrdering(t *testing.T) {
	doc := diagram.New(diagram.DirectionTD)
	doc.Nodes = []diagram.Node{{ID: "C"}, {ID: "a"}, {ID: "B"}, {ID: "N10"}, {ID: "N2"}}
	doc.Edges = edges("e-10", "a", "e-2", "b", "e-1", "c")
	doc.Subgraphs = []diagram.Subgraph{{ID: "s2"}, {ID: "s1"}}
	doc.RawBlocks = []diagram.UnsupportedBlock{{ID: "raw-11"}, {ID: "raw-2"}}

	got := Normalize(doc)

	var ids []string
	for _, n := range got.Nodes {
		ids = append(ids, n.ID)
	}
	for _, e := range got.Edges {
		ids = append(ids, e.ID)
	}
	for _, s := range got.Subgraphs {
		ids = append(ids, s.ID)
	}
	for _, b := range got.RawBlocks {
		ids = append(ids, b.ID)
	}
	want := []string{
		"B", "C", "N10", "N2", "a",
		"e-1", "e-2", "e-10",
		"s1", "s2",
		"raw-2", "raw-11",
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	docs := []diagram.Document{
		diagram.New(diagram.DirectionLR),
		{},
		Parse("flowchart TD\nB --> A\nA --> C\nclick A cb\nC -.-> B").Doc,
		{
			Direction: diagram.DirectionBT,
			Nodes:     []diagram.Node{{ID: "z"}, {ID: "y"}},
			Edges:     edges("", "a", "e-3", "b", "e-3", "c", "", "d", "e-10", "e", "e-9", "f"),
			RawBlocks: []diagram.UnsupportedBlock{{ID: "raw-3"}, {ID: "raw-1"}},
		},
	}
	for i, d := range docs {
		once := Normalize(d)
		twice := Normalize(once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("doc %d: not idempotent (-once +twice):\n%s", i, diff)
		}
		assertUniqueIDs(t, once)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	doc := diagram.New(diagram.DirectionTD)
	doc.Nodes = []diagram.Node{{ID: "b"}, {ID: "a"}}
	doc.Edges = edges("", "a", "e-1", "b")

	_ = Normalize(doc)

	if doc.Nodes[0].ID != "b" || doc.Edges[0].ID != "" || doc.Edges[1].ID != "e-1" {
		t.Errorf("input mutated: nodes=%v edges=%v", doc.Nodes, doc.Edges)
	}
}

func TestCompareIDs(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"e-2", "e-10", -1},
		{"e-10", "e-2", 1},
		{"e-1", "e-1", 0},
		{"a", "b", -1},
		{"B", "a", -1},
		{"e-01", "e-1", -1},
		{"a9", "a1x", 1},
		{"e-1", "e-1a", -1},
		{"raw-2", "raw-11", -1},
		{"x", "e-1", 1},
	}
	for _, tt := range tests {
		if got := compareIDs(tt.a, tt.b); got != tt.want {
			t.Errorf("compareIDs(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareIDsTotalOrder(t *testing.T) {
	ids := []string{"", "a", "a1", "a01", "a1x", "a9", "a10", "e-", "e-1", "e-2", "e-10", "e-1a", "x", "9", "10", "-1"}
	for _, a := range ids {
		for _, b := range ids {
			ab, ba := compareIDs(a, b), compareIDs(b, a)
			if ab != -ba {
				t.Errorf("compareIDs(%q, %q) = %d but reverse = %d", a, b, ab, ba)
			}
			if ab == 0 && a != b {
				t.Errorf("compareIDs(%q, %q) = 0 for distinct ids", a, b)
			}
			for _, c := range ids {
				if ab < 0 && compareIDs(b, c) < 0 && compareIDs(a, c) >= 0 {
					t.Errorf("not transitive: %q < %q < %q", a, b, c)
				}
			}
		}
	}
}
