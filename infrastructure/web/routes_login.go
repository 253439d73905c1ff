package web

import (
	"net/http"

	"itshere/auth"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"pwd"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	token, err := s.authService.Login(payload.Username, payload.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    string(token),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.respondJSON(w, http.StatusOK, map[string]any{
		"result": map[string]any{
			"success": true,
			"token":   string(token),
		},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := s.authService.Register(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"result": map[string]any{
			"success": true,
			"message": "User registered successfully",
		},
	})
}
