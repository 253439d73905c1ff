package services

import (
	"context"

	"itshere/repositories"
)

type IAccountService interface {
	ChangeEmail(ctx context.Context, caller, gmail string) error
	ChangePhoneNumber(ctx context.Context, caller, phone string) error
}

// AccountService covers profile edits for an authenticated user.
type AccountService struct {
	users repositories.IUserRepository
}

func NewAccountService(users repositories.IUserRepository) *AccountService {
	return &AccountService{users: users}
}

func (s *AccountService) ChangeEmail(ctx context.Context, caller, gmail string) error {
	return s.users.UpdateEmail(caller, gmail)
}

func (s *AccountService) ChangePhoneNumber(ctx context.Context, caller, phone string) error {
	return s.users.UpdatePhoneNumber(caller, phone)
}
