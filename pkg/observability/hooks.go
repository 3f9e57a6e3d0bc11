// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through hook interfaces whose defaults do nothing.
// A binary registers real implementations at startup, so packages such as
// [render] and [pipeline] never depend on a metrics backend directly.
//
// Register hooks at startup:
//
//	func main() {
//	    m := prom.New(prometheus.DefaultRegisterer)
//	    observability.SetDocumentHooks(m)
//	    observability.SetRenderHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	res := flowchart.Parse(src)
//	observability.Document().OnParse(ctx, len(res.Doc.Nodes), len(res.Doc.Edges), len(res.Warnings), time.Since(start))
//
// [render]: github.com/matzehuels/flowdoc/pkg/render
// [pipeline]: github.com/matzehuels/flowdoc/pkg/pipeline
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Hook Interfaces
// =============================================================================

// DocumentHooks receives events from document operations.
type DocumentHooks interface {
	OnParse(ctx context.Context, nodes, edges, warnings int, duration time.Duration)
	OnSerialize(ctx context.Context, size int, duration time.Duration)
	OnValidate(ctx context.Context, issues int)

	// OnCompose records an editing operation. err is non-nil for malformed
	// operations; applied is false for refused ones.
	OnCompose(ctx context.Context, op string, applied bool, err error)
}

// RenderHooks receives events from the renderer.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, theme, format string)

	// OnRenderComplete records the outcome. failed is true when the result
	// carries an error message instead of an image.
	OnRenderComplete(ctx context.Context, theme, format string, size int, duration time.Duration, failed bool)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API. OnRequest fires before
// routing and receives the raw path; OnResponse receives the matched route
// pattern, such as "/v1/documents/{id}".
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDocumentHooks is a no-op implementation of DocumentHooks.
type NoopDocumentHooks struct{}

func (NoopDocumentHooks) OnParse(context.Context, int, int, int, time.Duration) {}
func (NoopDocumentHooks) OnSerialize(context.Context, int, time.Duration)       {}
func (NoopDocumentHooks) OnValidate(context.Context, int)                       {}
func (NoopDocumentHooks) OnCompose(context.Context, string, bool, error)        {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, string) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, bool) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	documentHooks DocumentHooks = NoopDocumentHooks{}
	renderHooks   RenderHooks   = NoopRenderHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetDocumentHooks registers document hooks. A nil value is ignored.
func SetDocumentHooks(h DocumentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		documentHooks = h
	}
}

// SetRenderHooks registers render hooks. A nil value is ignored.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil value is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. A nil value is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Document returns the registered document hooks.
func Document() DocumentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return documentHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	documentHooks = NoopDocumentHooks{}
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
