package flowchart

import (
	"slices"
	"strings"

	"github.com/matzehuels/flowdoc/pkg/diagram"
)

// Normalize returns a canonical copy of doc. Nodes are ordered by id, edge
// ids are made unique and non-blank, and edges, subgraphs and raw blocks are
// ordered by id. Content is never changed. Normalize is idempotent.
func Normalize(doc diagram.Document) diagram.Document {
	out := doc.Clone()

	slices.SortStableFunc(out.Nodes, func(a, b diagram.Node) int {
		return strings.Compare(a.ID, b.ID)
	})

	assignEdgeIDs(out.Edges)
	slices.SortStableFunc(out.Edges, func(a, b diagram.Edge) int {
		return compareIDs(a.ID, b.ID)
	})
	slices.SortStableFunc(out.Subgraphs, func(a, b diagram.Subgraph) int {
		return compareIDs(a.ID, b.ID)
	})
	slices.SortStableFunc(out.RawBlocks, func(a, b diagram.UnsupportedBlock) int {
		return compareIDs(a.ID, b.ID)
	})
	return out
}

// assignEdgeIDs fills blank ids with e-<index+1> and moves each duplicate to
// the first unused e-<n> with n starting at its own index+1. It rewrites
// edges in place; callers pass a private copy.
func assignEdgeIDs(edges []diagram.Edge) {
	used := make(map[string]struct{}, len(edges))
	for i := range edges {
		id := strings.TrimSpace(edges[i].ID)
		if id == "" {
			id = diagram.EdgeID(i + 1)
		}
		if _, taken := used[id]; taken {
			for n := i + 1; ; n++ {
				id = diagram.EdgeID(n)
				if _, taken := used[id]; !taken {
					break
				}
			}
		}
		used[id] = struct{}{}
		edges[i].ID = id
	}
}

// compareIDs orders ids so that runs of digits compare by numeric value:
// "e-2" < "e-10". Non-digit runs compare byte-wise. Ids equal under that
// ordering (for example "e-01" and "e-1") fall back to byte-wise comparison,
// so the result is a total order.
func compareIDs(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ei, ej := digitRun(a, i), digitRun(b, j)
			if c := compareDigits(a[i:ei], b[j:ej]); c != 0 {
				return c
			}
			i, j = ei, ej
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func digitRun(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// compareDigits compares two digit strings by value without overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
