package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flowio "github.com/matzehuels/flowdoc/pkg/io"
	"github.com/matzehuels/flowdoc/pkg/observability"
	"github.com/matzehuels/flowdoc/pkg/observability/prom"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
	"github.com/matzehuels/flowdoc/pkg/share"
	"github.com/matzehuels/flowdoc/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	st := store.NewMemoryStore()
	t.Cleanup(func() { _ = st.Close() })
	return New(Options{
		Runner: pipeline.NewRunner(nil, logger),
		Store:  st,
		Logger: logger,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

// =============================================================================
// Health and routing
// =============================================================================

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "flowdoc", body["service"])
}

func TestNotFound(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/v2/nothing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestDocumentsDisabledWithoutStore(t *testing.T) {
	s := New(Options{Logger: log.New(io.Discard)})
	w := do(t, s, http.MethodGet, "/v1/documents", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// =============================================================================
// Diagram endpoints
// =============================================================================

func TestParse(t *testing.T) {
	s := newTestServer(t)

	t.Run("OK", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/v1/diagram/parse", `{"code":"flowchart LR\nA --> B"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Doc struct {
				Direction string            `json:"direction"`
				Nodes     []json.RawMessage `json:"nodes"`
				Edges     []json.RawMessage `json:"edges"`
			} `json:"doc"`
			Warnings []json.RawMessage `json:"warnings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "LR", res.Doc.Direction)
		assert.Len(t, res.Doc.Nodes, 2)
		assert.Len(t, res.Doc.Edges, 1)
		assert.NotNil(t, res.Warnings)
	})

	tests := []struct {
		name string
		body string
	}{
		{"MissingCode", `{}`},
		{"EmptyCode", `{"code":""}`},
		{"Malformed", `{"code":`},
		{"EmptyBody", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/v1/diagram/parse", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody[errorBody](t, w)
			assert.Equal(t, "INVALID_INPUT", string(body.Code))
			assert.True(t, strings.HasPrefix(body.Error, "Invalid payload"), body.Error)
		})
	}
}

func TestParseRequiredMessage(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/v1/diagram/parse", `{}`)
	body := decodeBody[errorBody](t, w)
	assert.Equal(t, "Invalid payload: code is required", body.Error)
}

func TestBodyLimit(t *testing.T) {
	s := New(Options{Logger: log.New(io.Discard), MaxBodyBytes: 32})
	w := do(t, s, http.MethodPost, "/v1/diagram/parse", `{"code":"`+strings.Repeat("A", 64)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds 32 bytes")
}

const sampleDoc = `{"version":"1","kind":"flowchart","direction":"TD",
	"nodes":[{"id":"B","label":"B","shape":"rect","x":0,"y":0,"width":160,"height":72},
	         {"id":"A","label":"Start","shape":"round","x":0,"y":0,"width":160,"height":72}],
	"edges":[{"id":"e-1","source":"A","target":"B"}]}`

func TestSerialize(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/diagram/serialize", `{"doc":`+sampleDoc+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"code":"flowchart TD\n  A(Start)\n  B[B]\n  A --> B"}`, w.Body.String())

	w = do(t, s, http.MethodPost, "/v1/diagram/serialize", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "doc is required")

	w = do(t, s, http.MethodPost, "/v1/diagram/serialize", `{"doc":{"kind":"sequence"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DOCUMENT", string(decodeBody[errorBody](t, w).Code))
}

func TestValidate(t *testing.T) {
	doc := strings.Replace(sampleDoc, `"target":"B"`, `"target":"Z"`, 1)
	w := do(t, newTestServer(t), http.MethodPost, "/v1/diagram/validate", `{"doc":`+doc+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody[struct {
		Issues []struct{ Path, Message string } `json:"issues"`
	}](t, w)
	require.Len(t, body.Issues, 1)
	assert.Equal(t, "edges.e-1.target", body.Issues[0].Path)
}

func TestNormalize(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/v1/diagram/normalize", `{"doc":`+sampleDoc+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody[struct {
		Doc struct {
			Nodes []struct{ ID string } `json:"nodes"`
		} `json:"doc"`
	}](t, w)
	require.Len(t, body.Doc.Nodes, 2)
	assert.Equal(t, "A", body.Doc.Nodes[0].ID)
}

func TestDetect(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/v1/diagram/detect", `{"code":"  \n%% c\nclassDiagram"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":"class"}`, w.Body.String())
}

func TestSchema(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/v1/diagram/schema", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/schema+json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, string(flowio.DocumentSchema()), w.Body.String())
}

func TestCompose(t *testing.T) {
	s := newTestServer(t)

	t.Run("Connect", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/v1/diagram/compose",
			`{"doc":`+sampleDoc+`,"op":{"op":"connect","source":"B","target":"A"}}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decodeBody[struct {
			ID      string `json:"id"`
			Applied bool   `json:"applied"`
			Code    string `json:"code"`
		}](t, w)
		assert.Equal(t, "e-2", body.ID)
		assert.True(t, body.Applied)
		assert.Contains(t, body.Code, "B --> A")
	})

	t.Run("SelfLoopRefused", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/v1/diagram/compose",
			`{"doc":`+sampleDoc+`,"op":{"op":"connect","source":"A","target":"A"}}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"applied":false`)
	})

	t.Run("MissingOp", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/v1/diagram/compose", `{"doc":`+sampleDoc+`,"op":{}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "op is required")
	})

	t.Run("BadDirection", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/v1/diagram/compose",
			`{"doc":`+sampleDoc+`,"op":{"op":"direction","direction":"UP"}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_DIRECTION", string(decodeBody[errorBody](t, w).Code))
	})
}

func TestRender(t *testing.T) {
	s := newTestServer(t)

	t.Run("SVG", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/v1/diagram/render", `{"code":"flowchart TD\n  A --> B"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "<svg")
	})

	t.Run("ParseError", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/v1/diagram/render", `{"code":"flowchart TD\n  A -->"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeBody[renderError](t, w)
		assert.Equal(t, 2, body.Line)
		assert.Equal(t, "RENDER_FAILED", string(body.Code))
	})

	t.Run("UnknownTheme", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/v1/diagram/render", `{"code":"flowchart TD\n  A","theme":"neon"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_THEME", string(decodeBody[errorBody](t, w).Code))
	})
}

// =============================================================================
// Documents
// =============================================================================

func TestDocumentLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/documents", `{"title":"Flow","code":"flowchart TD\nA --> B","theme":"dark"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[store.Record](t, w)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Flow", created.Title)
	assert.Len(t, created.Document.Nodes, 2)

	path := "/v1/documents/" + created.ID

	w = do(t, s, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decodeBody[store.Record](t, w).ID)

	w = do(t, s, http.MethodPut, path, `{"title":"Flow","code":"flowchart TD\nA --> C"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, path+"/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	hist := decodeBody[struct {
		Snapshots []store.Snapshot `json:"snapshots"`
	}](t, w)
	require.Len(t, hist.Snapshots, 2)
	assert.Equal(t, "flowchart TD\nA --> B", hist.Snapshots[0].Code)

	w = do(t, s, http.MethodGet, "/v1/documents", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[struct {
		Documents []store.Record `json:"documents"`
	}](t, w)
	assert.Len(t, list.Documents, 1)

	w = do(t, s, http.MethodDelete, path+"/history", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", string(decodeBody[errorBody](t, w).Code))
}

func TestDocumentErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"InvalidID", http.MethodGet, "/v1/documents/bad.id", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"Missing", http.MethodDelete, "/v1/documents/nope", "", http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{"MissingHistory", http.MethodGet, "/v1/documents/nope/history", "", http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{"NoCode", http.MethodPost, "/v1/documents", `{"title":"x"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"BadTheme", http.MethodPost, "/v1/documents", `{"code":"A","theme":"neon"}`, http.StatusBadRequest, "INVALID_THEME"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, string(decodeBody[errorBody](t, w).Code))
		})
	}
}

// =============================================================================
// Share
// =============================================================================

func TestShare(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/share", `{"code":"flowchart TD\nA","theme":"forest"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decodeBody[map[string]string](t, w)["token"]
	require.NotEmpty(t, token)

	w = do(t, s, http.MethodGet, "/v1/share/"+token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, share.State{Code: "flowchart TD\nA", Theme: "forest"}, decodeBody[share.State](t, w))

	w = do(t, s, http.MethodGet, "/v1/share/garbage!!", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// Observability
// =============================================================================

type routeRecorder struct {
	observability.NoopHTTPHooks
	routes []string
}

func (h *routeRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, method+" "+route)
}

func TestObserveUsesRoutePattern(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks := &routeRecorder{}
	observability.SetHTTPHooks(hooks)

	s := newTestServer(t)
	do(t, s, http.MethodGet, "/v1/documents/abc", "")
	do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, []string{"GET /v1/documents/{id}", "GET /health"}, hooks.routes)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Cleanup(observability.Reset)
	reg := prometheus.NewRegistry()
	prom.New(reg).Register()

	s := New(Options{Logger: log.New(io.Discard), Gatherer: reg})
	do(t, s, http.MethodGet, "/health", "")

	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "flowdoc_http_requests_total")
}
