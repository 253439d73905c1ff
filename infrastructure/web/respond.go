package web

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"itshere/errors"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("encoding response failed", "error", err)
	}
}

// respondError maps a typed service error to a status code and a generic
// message. Internal detail (raw store errors included) is logged, never
// sent to the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, "internal server error"

	switch {
	case stderrors.Is(err, errors.ErrUnauthorized),
		stderrors.Is(err, errors.ErrInvalidToken):
		status, message = http.StatusUnauthorized, "Unauthorized access"
	case stderrors.Is(err, errors.ErrLoginFail):
		status, message = http.StatusUnauthorized, "Invalid username or password"
	case stderrors.Is(err, errors.ErrUserNotFound):
		status, message = http.StatusNotFound, "User is not found"
	case stderrors.Is(err, errors.ErrChatNotFound):
		status, message = http.StatusNotFound, "Chat is not found"
	case stderrors.Is(err, errors.ErrPostNotFound):
		status, message = http.StatusNotFound, "Post is not found"
	case stderrors.Is(err, errors.ErrImageNotFound):
		status, message = http.StatusNotFound, "Image is not found"
	case stderrors.Is(err, errors.ErrInvalidID):
		status, message = http.StatusBadRequest, "Invalid ID format"
	case stderrors.Is(err, errors.ErrNotAnImage):
		status, message = http.StatusBadRequest, "Upload is not an image"
	case stderrors.Is(err, errors.ErrImageTooLarge):
		status, message = http.StatusBadRequest, "Image exceeds the size limit"
	case stderrors.Is(err, errors.ErrInvalidPassword):
		status, message = http.StatusBadRequest, "Invalid registration payload"
	case stderrors.Is(err, errors.ErrUserWithMailExists):
		status, message = http.StatusConflict, "A user with this email already exists"
	case stderrors.Is(err, errors.ErrUsernameTaken):
		status, message = http.StatusConflict, "Username already taken"
	case stderrors.Is(err, errors.ErrTokenCreation):
		status, message = http.StatusInternalServerError, "Failed to create token"
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.log.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.respondJSON(w, status, map[string]any{"error": message})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
