// Package flowchart reads and writes the flowchart dialect.
//
// # Grammar
//
// Only a small subset is understood structurally:
//
//	flowchart LR            direction (first content line only; "graph" also accepted)
//	A[Start]                node: [ ] rect, ( ) round, { } diamond, [[ ]] stadium
//	A --> B                 edge: --> solid, ==> thick, -.-> dotted
//	A -->|yes| B[Done]      edge label and inline endpoint declarations
//	%% note                 comment, skipped
//
// Every other non-blank line is kept verbatim as a [diagram.UnsupportedBlock]
// and re-emitted by [Serialize] after a "%% Preserved unsupported lines"
// marker, so nothing typed by a user is ever lost.
//
// # Canonical Form
//
// [Parse] and [Serialize] both pass through [Normalize], which orders nodes by
// id and edges, subgraphs and raw blocks by id with numeric suffixes compared
// by value. Two texts describing the same graph therefore serialize to the
// same bytes:
//
//	res := flowchart.Parse("graph lr\nB --> A\nA[Start]")
//	fmt.Println(flowchart.Serialize(res.Doc))
//	// flowchart LR
//	//   A[Start]
//	//   B[B]
//	//   B --> A
package flowchart
