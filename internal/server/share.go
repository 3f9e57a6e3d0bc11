package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowdoc/pkg/errors"
	"github.com/matzehuels/flowdoc/pkg/share"
)

type shareRequest struct {
	Code  string `json:"code" validate:"required"`
	Theme string `json:"theme,omitempty" validate:"omitempty,theme"`
}

func (s *Server) shareEncode(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := share.Encode(share.State{Code: req.Code, Theme: req.Theme})
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode share token"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) shareDecode(w http.ResponseWriter, r *http.Request) {
	state := share.Decode(chi.URLParam(r, "token"))
	if state == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "Invalid share token"))
		return
	}
	writeJSON(w, http.StatusOK, state)
}
