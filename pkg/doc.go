// Package pkg provides the core libraries for flowdoc, a flowchart editing
// and rendering toolkit.
//
// # Overview
//
// flowdoc keeps a flowchart in two synchronized forms: Mermaid-style source
// text and a structured document of nodes and edges that an editor can
// manipulate directly. The pkg directory is organized into four main areas:
//
//  1. [diagram] - The document model, diagram type detection and the
//     flowchart parser, serializer, normalizer and validator
//  2. [compose] - Pure editing operations over documents
//  3. [render] - Theme-aware rendering through Graphviz with a render cache
//  4. [pipeline] - Orchestration shared by the CLI and the HTTP API
//
// # Architecture
//
// The typical data flow through flowdoc:
//
//	Flowchart source
//	       ↓
//	  [diagram/flowchart] Parse (never fails; unknown lines become warnings)
//	       ↓
//	  [compose] Apply editing operations
//	       ↓
//	  [diagram/flowchart] Serialize back to canonical source
//	       ↓
//	  [render] SVG/PNG output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/flowdoc/pkg/compose"
//	    "github.com/matzehuels/flowdoc/pkg/diagram/flowchart"
//	    "github.com/matzehuels/flowdoc/pkg/render"
//	)
//
//	// 1. Parse source into a document
//	res := flowchart.Parse("flowchart LR\n  A --> B")
//
//	// 2. Edit it
//	doc, id, _ := compose.ConnectNodes(res.Doc, "B", "A")
//
//	// 3. Serialize and render
//	code := flowchart.Serialize(doc)
//	out := render.New().Render(ctx, code, render.ThemeDark, render.FormatSVG)
//
// # Main Packages
//
// ## Document Model
//
// [diagram] - Documents, nodes, edges, parse warnings and validation issues,
// plus diagram type detection from the first meaningful source line.
//
// [diagram/flowchart] - The flowchart grammar: Parse, Serialize, Normalize
// and Validate. Serialize(Parse(s).Doc) is a fixed point after one pass.
//
// [compose] - Immutable editing operations (add, move, relabel, reshape,
// connect, remove, direction) and the serializable [compose.Op] used by the
// CLI and the HTTP API.
//
// ## Rendering
//
// [render] - Converts flowchart source to DOT and renders it with Graphviz.
// Failures are returned as human-readable messages with a source line.
//
// ## Infrastructure
//
// [cache] - Render cache backends: file, Redis and a no-op cache.
//
// [store] - Document persistence with per-document snapshot history:
// memory, file, Redis and MongoDB backends.
//
// [share] - Compressed, URL-safe share tokens for source and theme.
//
// [io] - JSON import and export checked against the document schema.
//
// [config] - TOML configuration with FLOWDOC_* environment overrides.
//
// [observability] - Hooks for parse, render and HTTP events, with a
// Prometheus implementation in [observability/prom].
//
// [errors] - Coded errors shared by every entry point.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/diagram/...            # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/diagram
// [diagram/flowchart]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/diagram/flowchart
// [compose]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/compose
// [render]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/store
// [share]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/share
// [io]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowdoc/pkg/errors
package pkg
