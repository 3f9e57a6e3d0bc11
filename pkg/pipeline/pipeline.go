// Package pipeline runs flowdoc's document operations for the CLI and API.
//
// A [Runner] wraps the pure packages ([flowchart], [compose], [render]) with
// logging and observability hooks so that both entry points behave the
// same way:
//
//	runner := pipeline.NewRunner(render.New(render.WithCache(c, ttl)), logger)
//
//	res := runner.Parse(ctx, src)           // text -> document
//	code := runner.Serialize(ctx, res.Doc)   // document -> canonical text
//	out, err := runner.Format(ctx, src)      // both, reporting changes
//	img, err := runner.Render(ctx, pipeline.RenderRequest{Code: src, Theme: "dark"})
//
// [flowchart]: github.com/matzehuels/flowdoc/pkg/diagram/flowchart
// [compose]: github.com/matzehuels/flowdoc/pkg/compose
// [render]: github.com/matzehuels/flowdoc/pkg/render
package pipeline

import (
	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/render"
)

// FormatResult is the outcome of [Runner.Format].
type FormatResult struct {
	// Code is the canonical text.
	Code string `json:"code"`
	// Changed reports whether Code differs from the input.
	Changed bool `json:"changed"`
	// Warnings are the parse warnings for the input.
	Warnings []diagram.ParseWarning `json:"warnings"`
}

// RenderRequest names the source and options of a render. Empty Theme and
// Format select the defaults.
type RenderRequest struct {
	Code   string `json:"code" validate:"required"`
	Theme  string `json:"theme,omitempty"`
	Format string `json:"format,omitempty"`
}

// RenderResult adds the parsed options and any error line to a render
// result.
type RenderResult struct {
	render.Result
	Theme  render.Theme  `json:"theme"`
	Format render.Format `json:"format"`
	// Line is the source line the error refers to, or zero.
	Line int `json:"line,omitempty"`
	// Message is the error rewritten for display.
	Message string `json:"message,omitempty"`
}
