package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowdoc/pkg/compose"
	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/diagram/flowchart"
	"github.com/matzehuels/flowdoc/pkg/observability"
	"github.com/matzehuels/flowdoc/pkg/render"
)

// Runner executes document operations with logging and hooks.
//
// The Runner holds no document state. Multiple goroutines can safely share
// one Runner.
type Runner struct {
	Renderer *render.Renderer
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil renderer renders without caching; a
// nil logger uses log.Default().
func NewRunner(r *render.Renderer, logger *log.Logger) *Runner {
	if r == nil {
		r = render.New()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Renderer: r, Logger: logger}
}

// Detect returns the diagram type of source.
func (r *Runner) Detect(source string) diagram.Type {
	return diagram.Detect(source)
}

// Parse converts source text to a normalized document. It never fails.
func (r *Runner) Parse(ctx context.Context, source string) diagram.ParseResult {
	start := time.Now()
	res := flowchart.Parse(source)
	elapsed := time.Since(start)

	observability.Document().OnParse(ctx, len(res.Doc.Nodes), len(res.Doc.Edges), len(res.Warnings), elapsed)
	r.Logger.Debug("parsed flowchart",
		"nodes", len(res.Doc.Nodes),
		"edges", len(res.Doc.Edges),
		"unsupported", len(res.Doc.RawBlocks),
		"warnings", len(res.Warnings),
		"duration", elapsed)
	return res
}

// Serialize converts doc to canonical source text.
func (r *Runner) Serialize(ctx context.Context, doc diagram.Document) string {
	start := time.Now()
	code := flowchart.Serialize(doc)
	elapsed := time.Since(start)

	observability.Document().OnSerialize(ctx, len(code), elapsed)
	r.Logger.Debug("serialized flowchart", "bytes", len(code), "duration", elapsed)
	return code
}

// Normalize returns the canonical form of doc.
func (r *Runner) Normalize(ctx context.Context, doc diagram.Document) diagram.Document {
	return flowchart.Normalize(doc)
}

// Format parses source and serializes it back to canonical text.
func (r *Runner) Format(ctx context.Context, source string) FormatResult {
	res := r.Parse(ctx, source)
	code := r.Serialize(ctx, res.Doc)
	return FormatResult{
		Code:     code,
		Changed:  code != source,
		Warnings: res.Warnings,
	}
}

// Validate reports integrity issues in doc.
func (r *Runner) Validate(ctx context.Context, doc diagram.Document) []diagram.ValidationIssue {
	issues := flowchart.Validate(doc)
	observability.Document().OnValidate(ctx, len(issues))
	if len(issues) > 0 {
		r.Logger.Debug("validation issues", "count", len(issues))
	}
	return issues
}

// Compose applies an editing operation to doc.
func (r *Runner) Compose(ctx context.Context, doc diagram.Document, op compose.Op) (compose.Result, error) {
	res, err := compose.Apply(doc, op)
	observability.Document().OnCompose(ctx, string(op.Op), res.Applied, err)
	if err != nil {
		r.Logger.Debug("compose rejected", "op", op.Op, "error", err)
		return res, err
	}
	r.Logger.Debug("composed", "op", op.Op, "applied", res.Applied, "id", res.ID)
	return res, nil
}

// Render draws req.Code. It returns an error only for an invalid theme or
// format; diagram problems are reported in the result.
func (r *Runner) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	theme, err := render.ParseTheme(req.Theme)
	if err != nil {
		return RenderResult{}, err
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		return RenderResult{}, err
	}

	start := time.Now()
	res := r.Renderer.Render(ctx, req.Code, theme, format)
	out := RenderResult{Result: res, Theme: theme, Format: format}
	if res.Error != "" {
		out.Line, _ = render.ErrorLine(res.Error)
		out.Message = render.FormatError(res.Error)
		r.Logger.Debug("render failed", "error", res.Error, "line", out.Line)
		return out, nil
	}

	r.Logger.Info("rendered diagram",
		"format", format,
		"theme", theme,
		"bytes", len(res.Image),
		"cached", res.Cached,
		"duration", time.Since(start))
	return out, nil
}
