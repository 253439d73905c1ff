// Package web is the HTTP boundary of the service. It maps requests to
// service operations and typed errors to status codes; no business rule
// lives here.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"itshere/auth"
	"itshere/services"
	"itshere/storage"
)

type Server struct {
	authService services.IAuthService
	chat        services.IChatService
	posts       services.IPostService
	accounts    services.IAccountService
	images      *storage.ImageStore
	gate        *auth.Gate
	log         *slog.Logger
}

func NewServer(
	authService services.IAuthService,
	chat services.IChatService,
	posts services.IPostService,
	accounts services.IAccountService,
	images *storage.ImageStore,
	gate *auth.Gate,
	log *slog.Logger,
) *Server {
	return &Server{
		authService: authService,
		chat:        chat,
		posts:       posts,
		accounts:    accounts,
		images:      images,
		gate:        gate,
		log:         log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Use(s.requestLogger)

	// Public surface.
	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)
	r.Get("/api/posts", s.handleListPosts)
	r.Get("/api/posts/search", s.handleSearchPosts)
	r.Get("/api/posts/{username}", s.handleListPostsByUser)
	r.Get("/api/post/{id}/comments", s.handleListComments)
	r.Get("/api/images/{name}", s.handleGetImage)

	// Everything below requires a valid session cookie.
	r.Group(func(r chi.Router) {
		r.Use(s.gate.Middleware)

		r.Post("/api/chat/create/{peer}", s.handleCreateChat)
		r.Post("/api/chat/{peer}", s.handleSendMessage)
		r.Get("/api/chat/{peer}", s.handleGetChat)
		r.Get("/api/chats", s.handleListChats)

		r.Post("/api/post", s.handleAddPost)
		r.Post("/api/post/{id}/comment", s.handleAddComment)

		r.Post("/api/upload", s.handleUploadImage)

		r.Put("/api/edit/email", s.handleChangeEmail)
		r.Put("/api/edit/phone", s.handleChangePhone)
	})

	return r
}
