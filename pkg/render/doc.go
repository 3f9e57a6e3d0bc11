// Package render turns flowchart source text into images.
//
// Rendering goes through Graphviz: [ToDOT] converts a parsed document into
// DOT with the palette of a [Theme], and a [Renderer] lays it out with
// go-graphviz and encodes it as SVG or PNG.
//
//	r := render.New(render.WithCache(c, time.Hour))
//	res := r.Render(ctx, src, render.ThemeDark, render.FormatSVG)
//	if res.Error != "" {
//	    line, _ := render.ErrorLine(res.Error)
//	    fmt.Println(render.FormatError(res.Error), "at", line)
//	}
//
// Diagram problems never surface as Go errors. [Result.Error] carries a
// message in the form editors already understand, for example
//
//	Parse error on line 3: Expecting 'NODE_ID', got 'NEWLINE'
//
// which [ErrorLine] maps to a line number and [FormatError] rewrites for
// display.
package render
