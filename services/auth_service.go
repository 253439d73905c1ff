package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"itshere/auth"
	"itshere/domain"
	"itshere/errors"
	"itshere/repositories"
)

type IAuthService interface {
	Register(req auth.RegisterRequest) error
	Login(username, password string) (Token, error)
}

type Token string

type AuthService struct {
	users repositories.IUserRepository
	codec *auth.Codec
}

func NewAuthService(users repositories.IUserRepository, codec *auth.Codec) *AuthService {
	return &AuthService{users: users, codec: codec}
}

func (s *AuthService) Register(req auth.RegisterRequest) error {
	// Validate business rules before any expensive cryptographic work.
	if err := auth.ValidateRegister(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hashing happens in the service layer so the repository never sees
	// a plain password.
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}

	user := domain.User{
		ID:             uuid.New(),
		Username:       req.Username,
		Gmail:          req.Gmail,
		PhoneNumber:    req.PhoneNumber,
		ProfilePicture: req.ProfilePicture,
		PasswordHash:   hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	// Propagates ErrUsernameTaken / ErrUserWithMailExists on collision.
	return s.users.CreateUser(user)
}

func (s *AuthService) Login(username, password string) (Token, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		// Generic error to prevent user enumeration attacks.
		return "", errors.ErrLoginFail
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrLoginFail
	}

	token, err := s.codec.Issue(user.Username)
	if err != nil {
		return "", errors.ErrTokenCreation
	}
	return Token(token), nil
}
