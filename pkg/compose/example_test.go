package compose_test

import (
	"fmt"

	"github.com/matzehuels/flowdoc/pkg/compose"
	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/diagram/flowchart"
)

func Example() {
	doc := diagram.New(diagram.DirectionLR)

	doc, start := compose.AddNode(doc)
	doc, end := compose.AddNodeAt(doc, 403, 117)
	doc = compose.UpdateNodeLabel(doc, start, "Start")
	doc = compose.UpdateNodeShape(doc, end, diagram.ShapeRound)
	doc, edge, _ := compose.ConnectNodes(doc, start, end)

	_, _, ok := compose.ConnectNodes(doc, start, end)
	fmt.Println("duplicate accepted:", ok)
	fmt.Println("edge:", edge)
	fmt.Println(flowchart.Serialize(doc))
	// Output:
	// duplicate accepted: false
	// edge: e-1
	// flowchart LR
	//   N1[Start]
	//   N2(N2)
	//   N1 --> N2
}

func ExampleApply() {
	doc := flowchart.Parse("flowchart TD\nA --> B").Doc

	res, err := compose.Apply(doc, compose.Op{Op: compose.OpRemove, Selection: compose.NodeSelection("A")})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Applied, len(res.Doc.Nodes), len(res.Doc.Edges))
	// Output:
	// true 1 0
}
