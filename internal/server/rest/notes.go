package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

const noteNotFound = "Note not found"

type noteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (req noteRequest) validate() error {
	if req.Title == nil {
		return errors.New("title is required")
	}
	if req.Content == nil {
		return errors.New("content is required")
	}
	return nil
}

type noteListResponse struct {
	Notes []*models.Note `json:"notes"`
}

func (s *Server) decodeNote(w http.ResponseWriter, r *http.Request) (noteRequest, bool) {
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid json")
		return req, false
	}
	if err := req.validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return req, false
	}
	return req, true
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeNote(w, r)
	if !ok {
		return
	}

	n, err := s.notes.Create(r.Context(), callerFrom(r.Context()), *req.Title, *req.Content)
	if err != nil {
		s.writeError(w, r, err, noteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	list, err := s.notes.List(r.Context(), callerFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, noteNotFound)
		return
	}
	if list == nil {
		list = []*models.Note{}
	}
	writeJSON(w, http.StatusOK, noteListResponse{Notes: list})
}

func (s *Server) exportNotes(w http.ResponseWriter, r *http.Request) {
	exp, err := s.notes.Export(r.Context(), callerFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, noteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}

	n, err := s.notes.Get(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err, noteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}
	req, ok := s.decodeNote(w, r)
	if !ok {
		return
	}

	n, err := s.notes.Update(r.Context(), callerFrom(r.Context()), id, *req.Title, *req.Content)
	if err != nil {
		s.writeError(w, r, err, noteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}

	n, err := s.notes.Delete(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err, noteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
