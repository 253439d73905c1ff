package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"itshere/auth"
	"itshere/errors"
)

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CallerFromContext(r.Context()); !ok {
		s.respondError(w, r, errors.ErrUnauthorized)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name, err := s.images.Save(file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"link":   fmt.Sprintf("/api/images/%s", name),
	})
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	path, err := s.images.Path(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	http.ServeFile(w, r, path)
}
