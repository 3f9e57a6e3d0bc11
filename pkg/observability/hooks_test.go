package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	d := NoopDocumentHooks{}
	d.OnParse(ctx, 3, 2, 1, time.Millisecond)
	d.OnSerialize(ctx, 128, time.Millisecond)
	d.OnValidate(ctx, 0)
	d.OnCompose(ctx, "connect", true, nil)

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "dark", "svg")
	r.OnRenderComplete(ctx, "dark", "svg", 2048, time.Second, false)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/diagram/parse")
	h.OnResponse(ctx, "POST", "/v1/diagram/parse", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Document().(NoopDocumentHooks); !ok {
		t.Error("Document() should return NoopDocumentHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	doc := &testDocumentHooks{}
	SetDocumentHooks(doc)
	if Document() != doc {
		t.Error("SetDocumentHooks should set custom hooks")
	}

	rh := &testRenderHooks{}
	SetRenderHooks(rh)
	if Render() != rh {
		t.Error("SetRenderHooks should set custom hooks")
	}

	ch := &testCacheHooks{}
	SetCacheHooks(ch)
	if Cache() != ch {
		t.Error("SetCacheHooks should set custom hooks")
	}

	hh := &testHTTPHooks{}
	SetHTTPHooks(hh)
	if HTTP() != hh {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Document().(NoopDocumentHooks); !ok {
		t.Error("Reset() should restore NoopDocumentHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testRenderHooks{}
	SetRenderHooks(custom)
	SetRenderHooks(nil)

	if Render() != custom {
		t.Error("SetRenderHooks(nil) should be ignored")
	}
}

type testDocumentHooks struct{ NoopDocumentHooks }
type testRenderHooks struct{ NoopRenderHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
