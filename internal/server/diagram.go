package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/flowdoc/pkg/buildinfo"
	"github.com/matzehuels/flowdoc/pkg/compose"
	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/errors"
	flowio "github.com/matzehuels/flowdoc/pkg/io"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
)

type codeRequest struct {
	Code string `json:"code" validate:"required"`
}

type docRequest struct {
	Doc json.RawMessage `json:"doc" validate:"required"`
}

type composeRequest struct {
	Doc json.RawMessage `json:"doc" validate:"required"`
	Op  compose.Op      `json:"op"`
}

type composeResponse struct {
	compose.Result
	Code string `json:"code"`
}

type renderError struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
	Line  int         `json:"line,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": ServiceName,
		"version": buildinfo.Version,
	})
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Parse(r.Context(), req.Code))
}

func (s *Server) detect(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]diagram.Type{"type": s.runner.Detect(req.Code)})
}

// schema serves the JSON schema that document payloads are checked against.
func (s *Server) schema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(flowio.DocumentSchema())
}

// decodeDoc reads a {"doc": ...} body and checks the document against the
// JSON schema.
func (s *Server) decodeDoc(w http.ResponseWriter, r *http.Request) (diagram.Document, bool) {
	var req docRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return diagram.Document{}, false
	}
	doc, err := flowio.DecodeDocument(req.Doc)
	if err != nil {
		s.writeError(w, r, err)
		return diagram.Document{}, false
	}
	return doc, true
}

func (s *Server) serialize(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeDoc(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": s.runner.Serialize(r.Context(), doc)})
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeDoc(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]diagram.ValidationIssue{"issues": s.runner.Validate(r.Context(), doc)})
}

func (s *Server) normalize(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeDoc(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]diagram.Document{"doc": s.runner.Normalize(r.Context(), doc)})
}

func (s *Server) compose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := flowio.DecodeDocument(req.Doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Compose(r.Context(), doc, req.Op)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, composeResponse{Result: res, Code: s.runner.Serialize(r.Context(), res.Doc)})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var req pipeline.RenderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Render(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res.Error != "" {
		writeJSON(w, http.StatusUnprocessableEntity, renderError{
			Error: res.Message,
			Code:  errors.ErrCodeRenderFailed,
			Line:  res.Line,
		})
		return
	}

	cacheState := "miss"
	if res.Cached {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Image)))
	w.Header().Set("X-Flowdoc-Cache", cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Image)
}
