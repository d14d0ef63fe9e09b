package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/spellcheck"
	"github.com/go-chi/chi/v5"
)

type detail struct {
	Detail any `json:"detail"`
}

type spellingDetail struct {
	Message string                   `json:"message"`
	Words   []spellcheck.Misspelling `json:"words"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detail{Detail: msg})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", common.BearerScheme)
	writeDetail(w, http.StatusUnauthorized, msg)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed",
		"request_id", requestIDFrom(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeDetail(w, http.StatusInternalServerError, "internal error")
}

// writeError maps service errors onto HTTP responses. notFound is the
// detail reported for common.ErrorNotFound.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *spellcheck.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, detail{Detail: spellingDetail{Message: "spelling errors", Words: verr.Words}})
	case errors.Is(err, common.ErrorValidation):
		writeDetail(w, http.StatusUnprocessableEntity, "validation error")
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrDuplicateEmail):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, common.ErrorUnauthorized):
		writeUnauthorized(w, "Could not validate credentials")
	case errors.Is(err, common.ErrSpellerUnavailable):
		s.logger.Warn(r.Context(), "spell checker unavailable", "request_id", requestIDFrom(r.Context()), "error", err)
		writeDetail(w, http.StatusServiceUnavailable, "Spell checker unavailable")
	default:
		s.internalError(w, r, err)
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeJSON rejects bodies that are not a single JSON object.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}
