package render_test

import (
	"fmt"

	"github.com/matzehuels/flowdoc/pkg/render"
)

func ExampleFormatError() {
	msg := "Parse error on line 4: A -->\nExpecting 'NODE_ID', got 'NEWLINE'"
	line, _ := render.ErrorLine(msg)
	fmt.Println(line)
	fmt.Println(render.FormatError(msg))
	// Output:
	// 4
	// Unexpected token 'NEWLINE' on line 4 - Tip: The previous line may be incomplete; check for missing arrows or colons
}
