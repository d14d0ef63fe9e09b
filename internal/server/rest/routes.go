package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(echoRequestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/token", s.token)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.createUser)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getUser)
			r.Put("/", s.updateUser)
			r.Delete("/", s.deleteUser)
		})
	})

	r.Route("/notes", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/", s.createNote)
		r.Get("/", s.listNotes)
		r.Get("/export", s.exportNotes)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getNote)
			r.Put("/", s.updateNote)
			r.Delete("/", s.deleteNote)
		})
	})

	return r
}
