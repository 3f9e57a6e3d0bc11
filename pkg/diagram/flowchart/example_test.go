package flowchart_test

import (
	"fmt"

	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/diagram/flowchart"
)

func ExampleParse() {
	res := flowchart.Parse("flowchart LR\nA[Start] --> B{Check}\nB --> C[Done]")

	fmt.Println("direction:", res.Doc.Direction)
	for _, n := range res.Doc.Nodes {
		fmt.Printf("%s %s %q at (%g, %g)\n", n.ID, n.Shape, n.Label, n.X, n.Y)
	}
	for _, e := range res.Doc.Edges {
		fmt.Printf("%s: %s -> %s (%s)\n", e.ID, e.Source, e.Target, e.Style)
	}
	fmt.Println("warnings:", len(res.Warnings))
	// Output:
	// direction: LR
	// A rect "Start" at (120, 100)
	// B diamond "Check" at (360, 100)
	// C rect "Done" at (600, 100)
	// e-1: A -> B (solid)
	// e-2: B -> C (solid)
	// warnings: 0
}

func ExampleParse_unsupported() {
	res := flowchart.Parse("flowchart TD\nA --> B\nclassDef default fill:#f9f")

	for _, b := range res.Doc.RawBlocks {
		fmt.Printf("%s line %d: %s\n", b.ID, b.Line, b.SourceText)
	}
	for _, w := range res.Warnings {
		fmt.Printf("%s line %d\n", w.Code, w.Line)
	}
	// Output:
	// raw-1 line 3: classDef default fill:#f9f
	// UNSUPPORTED_BLOCK line 3
}

func ExampleSerialize() {
	res := flowchart.Parse("graph lr\nB --> A\nA[Start]\nstyle A fill:#fff")
	fmt.Println(flowchart.Serialize(res.Doc))
	// Output:
	// flowchart LR
	//   A[Start]
	//   B[B]
	//   B --> A
	//
	// %% Preserved unsupported lines
	// style A fill:#fff
}

func ExampleValidate() {
	doc := diagram.New(diagram.DirectionTD)
	doc.Nodes = append(doc.Nodes, diagram.NewNode("A", "", diagram.ShapeRect, 0, 0))
	doc.Edges = append(doc.Edges, diagram.Edge{ID: "e-1", Source: "A", Target: "MISSING"})

	for _, issue := range flowchart.Validate(doc) {
		fmt.Printf("%s: %s\n", issue.Path, issue.Message)
	}
	// Output:
	// edges.e-1.target: Unknown target node: MISSING
}
