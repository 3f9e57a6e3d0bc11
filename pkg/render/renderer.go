package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowdoc/pkg/cache"
	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/diagram/flowchart"
	"github.com/matzehuels/flowdoc/pkg/observability"
)

// Result is the outcome of a render. Exactly one of Image and Error is set,
// except for blank input where both are empty.
type Result struct {
	Image       []byte `json:"-"`
	ContentType string `json:"contentType,omitempty"`
	Error       string `json:"error,omitempty"`
	// Cached is true when Image came from the cache.
	Cached bool `json:"cached,omitempty"`
}

// OK reports whether the result carries an image.
func (r Result) OK() bool { return r.Error == "" && len(r.Image) > 0 }

// Renderer renders flowchart source with Graphviz, caching images.
// It is safe for concurrent use.
type Renderer struct {
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithCache stores rendered images in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(r *Renderer) {
		if c != nil {
			r.cache = c
		}
		r.ttl = ttl
	}
}

// WithKeyer replaces the default cache keyer.
func WithKeyer(k cache.Keyer) Option {
	return func(r *Renderer) {
		if k != nil {
			r.keyer = k
		}
	}
}

// WithLogger sets the logger for cache failures and timings.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a renderer. Without options it does not cache.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		ttl:    cache.DefaultTTL,
		logger: log.New(nopWriter{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws source in the given theme and format.
//
// Blank source yields an empty Result. Source that is not a flowchart, or
// whose edges are cut off mid-line, yields a Result carrying an error
// message; Go errors from Graphviz are reported the same way.
func (r *Renderer) Render(ctx context.Context, source string, theme Theme, format Format) Result {
	if strings.TrimSpace(source) == "" {
		return Result{}
	}
	if !format.Valid() {
		return Result{Error: fmt.Sprintf("Unsupported format: %s", format)}
	}
	if !theme.Valid() {
		return Result{Error: fmt.Sprintf("Unsupported theme: %s", theme)}
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(theme), string(format))
	start := time.Now()
	res := r.render(ctx, source, theme, format)
	hooks.OnRenderComplete(ctx, string(theme), string(format), len(res.Image), time.Since(start), res.Error != "")
	return res
}

func (r *Renderer) render(ctx context.Context, source string, theme Theme, format Format) Result {
	switch typ := diagram.Detect(source); typ {
	case diagram.TypeFlowchart:
	case diagram.TypeUnknown:
		return Result{Error: "Unknown diagram type"}
	default:
		return Result{Error: fmt.Sprintf("Unsupported diagram type: %s", typ)}
	}

	key := r.keyer.RenderKey(source, cache.RenderKeyOpts{Theme: string(theme), Format: string(format)})
	if data, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warn("render cache read failed", "error", err)
	} else if ok {
		observability.Cache().OnCacheHit(ctx, "render")
		return Result{Image: data, ContentType: format.ContentType(), Cached: true}
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	parsed := flowchart.Parse(source)
	if line, text, ok := incompleteEdge(parsed.Doc); ok {
		return Result{Error: fmt.Sprintf("Parse error on line %d: %s\nExpecting 'NODE_ID', got 'NEWLINE'", line, strings.TrimSpace(text))}
	}

	start := time.Now()
	img, err := renderDOT(ctx, ToDOT(parsed.Doc, theme), format)
	if err != nil {
		return Result{Error: fmt.Sprintf("Render error: %v", err)}
	}
	r.logger.Debug("rendered diagram", "format", format, "theme", theme, "bytes", len(img), "duration", time.Since(start))

	if err := r.cache.Set(ctx, key, img, r.ttl); err != nil {
		r.logger.Warn("render cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "render", len(img))
	}
	return Result{Image: img, ContentType: format.ContentType()}
}

// incompleteEdge finds the first preserved line that ends with, or
// consists of, a dangling arrow.
func incompleteEdge(doc diagram.Document) (int, string, bool) {
	for _, b := range doc.RawBlocks {
		t := strings.TrimSpace(b.SourceText)
		for _, arrow := range flowchart.Arrows() {
			if strings.HasSuffix(t, arrow) || strings.HasPrefix(t, arrow) {
				return b.Line, b.SourceText, b.Line > 0
			}
		}
	}
	return 0, "", false
}

var graphvizFormats = map[Format]graphviz.Format{
	FormatSVG: graphviz.SVG,
	FormatPNG: graphviz.PNG,
}

// renderDOT lays out and encodes a DOT graph.
func renderDOT(ctx context.Context, dot string, format Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphvizFormats[format], &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
