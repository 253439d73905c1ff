package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"itshere/auth"
	"itshere/domain"
	"itshere/errors"
	"itshere/services"
)

func (s *Server) handleAddPost(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, errors.ErrUnauthorized)
		return
	}

	var req services.NewPost
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	post, err := s.posts.AddPost(r.Context(), caller, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"post":   post,
	})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListPosts(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, viewsOrEmpty(posts))
}

func (s *Server) handleListPostsByUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	posts, err := s.posts.ListPostsByUser(r.Context(), username)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, viewsOrEmpty(posts))
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	if terms == "" {
		s.respondJSON(w, http.StatusOK, []domain.PostView{})
		return
	}

	posts, err := s.posts.SearchPosts(r.Context(), terms)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, viewsOrEmpty(posts))
}

type commentPayload struct {
	Message string `json:"message"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, errors.ErrUnauthorized)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, errors.ErrInvalidID)
		return
	}

	var payload commentPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	comment, err := s.posts.AddComment(r.Context(), caller, postID, payload.Message)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"comment": comment,
	})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, errors.ErrInvalidID)
		return
	}

	comments, err := s.posts.ListComments(r.Context(), postID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func viewsOrEmpty(posts []domain.PostView) []domain.PostView {
	if posts == nil {
		return []domain.PostView{}
	}
	return posts
}
