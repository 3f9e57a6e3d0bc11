package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowdoc/pkg/errors"
	"github.com/matzehuels/flowdoc/pkg/store"
)

type documentRequest struct {
	Title string `json:"title"`
	Code  string `json:"code" validate:"required"`
	Theme string `json:"theme,omitempty" validate:"omitempty,theme"`
}

// documentID reads and validates the {id} URL parameter.
func documentID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDocumentID(id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, map[string][]*store.Record{"documents": recs})
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	s.saveDocument(w, r, store.NewID(), http.StatusCreated)
}

func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.saveDocument(w, r, id, http.StatusOK)
}

// saveDocument parses the submitted code, stores the record and appends
// the code to its history.
func (s *Server) saveDocument(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req documentRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	rec := &store.Record{
		ID:       id,
		Title:    req.Title,
		Theme:    req.Theme,
		Code:     req.Code,
		Document: s.runner.Parse(ctx, req.Code).Doc,
	}
	if rec.Title == "" {
		rec.Title = "Untitled"
	}
	if err := s.store.Put(ctx, rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.store.AddSnapshot(ctx, id, req.Code); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, rec)
}

// lookup loads the record named by the URL, writing a 404 if it is missing.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*store.Record, bool) {
	id, err := documentID(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if rec == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id))
		return nil, false
	}
	return rec, true
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	if rec, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), rec.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	snaps, err := s.store.Snapshots(r.Context(), rec.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, map[string][]store.Snapshot{"snapshots": snaps})
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := s.store.ClearHistory(r.Context(), rec.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
