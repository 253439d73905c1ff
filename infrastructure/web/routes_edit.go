package web

import (
	"net/http"

	"itshere/auth"
	"itshere/errors"
)

type editEmailPayload struct {
	Gmail string `json:"gmail"`
}

type editPhonePayload struct {
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) handleChangeEmail(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, errors.ErrUnauthorized)
		return
	}

	var payload editEmailPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := s.accounts.ChangeEmail(r.Context(), caller, payload.Gmail); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (s *Server) handleChangePhone(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, errors.ErrUnauthorized)
		return
	}

	var payload editPhonePayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := s.accounts.ChangePhoneNumber(r.Context(), caller, payload.PhoneNumber); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "success"})
}
