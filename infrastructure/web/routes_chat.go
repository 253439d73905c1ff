package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"itshere/auth"
	"itshere/domain"
	"itshere/errors"
)

type messagePayload struct {
	Message string `json:"message"`
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, errors.ErrUnauthorized)
		return
	}
	peer := chi.URLParam(r, "peer")

	room, err := s.chat.CreateOrGetRoom(r.Context(), caller, peer)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "chat created successfully",
		"room":   room,
	})
}

// handleSendMessage resolves (or lazily creates) the room with the peer
// at the boundary, then delegates the send itself to the chat service.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, errors.ErrUnauthorized)
		return
	}
	peer := chi.URLParam(r, "peer")

	var payload messagePayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	room, err := s.chat.CreateOrGetRoom(r.Context(), caller, peer)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	message, err := s.chat.SendMessage(r.Context(), caller, room.ID, payload.Message)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Message sent successfully",
		"data":    message,
	})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, errors.ErrUnauthorized)
		return
	}
	peer := chi.URLParam(r, "peer")

	room, err := s.chat.CreateOrGetRoom(r.Context(), caller, peer)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	messages, err := s.chat.GetMessages(r.Context(), caller, room.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"messages": messages,
	})
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, errors.ErrUnauthorized)
		return
	}

	rooms, err := s.chat.ListRoomsForUser(r.Context(), caller)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"chats":  rooms,
	})
}
