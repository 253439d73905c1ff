package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"itshere/auth"
	"itshere/domain"
	"itshere/errors"
	"itshere/mocks"
)

func validRegisterRequest() auth.RegisterRequest {
	return auth.RegisterRequest{
		Username:    "alice",
		Gmail:       "alice@example.com",
		PhoneNumber: "0612345678",
		Password:    "Str0ng-Enough-Pass!",
	}
}

func TestAuthService_Register(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	service := NewAuthService(users, auth.NewCodec([]byte("test-secret"), time.Hour))

	users.EXPECT().CreateUser(gomock.Any()).DoAndReturn(func(user domain.User) error {
		require.Equal(t, "alice", user.Username)
		require.NotEmpty(t, user.PasswordHash)
		require.NotEqual(t, "Str0ng-Enough-Pass!", user.PasswordHash)
		return nil
	})

	req.NoError(service.Register(validRegisterRequest()))
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	service := NewAuthService(users, auth.NewCodec([]byte("test-secret"), time.Hour))

	users.EXPECT().CreateUser(gomock.Any()).Times(0)

	request := validRegisterRequest()
	request.Password = "alllowercasebutlong"
	req.ErrorIs(service.Register(request), errors.ErrInvalidPassword)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	service := NewAuthService(users, auth.NewCodec([]byte("test-secret"), time.Hour))

	users.EXPECT().CreateUser(gomock.Any()).Return(errors.ErrUsernameTaken)

	req.ErrorIs(service.Register(validRegisterRequest()), errors.ErrUsernameTaken)
}

func TestAuthService_Login(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	codec := auth.NewCodec([]byte("test-secret"), time.Hour)
	service := NewAuthService(users, codec)

	hash, err := auth.HashPassword("Str0ng-Enough-Pass!")
	req.NoError(err)
	users.EXPECT().GetUserByUsername("alice").
		Return(domain.User{Username: "alice", PasswordHash: hash}, nil)

	token, err := service.Login("alice", "Str0ng-Enough-Pass!")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := codec.Verify(string(token))
	req.NoError(err)
	req.Equal("alice", claims.Username())
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	service := NewAuthService(users, auth.NewCodec([]byte("test-secret"), time.Hour))

	hash, err := auth.HashPassword("Str0ng-Enough-Pass!")
	req.NoError(err)
	users.EXPECT().GetUserByUsername("alice").
		Return(domain.User{Username: "alice", PasswordHash: hash}, nil)

	_, err = service.Login("alice", "wrong-password")
	req.ErrorIs(err, errors.ErrLoginFail)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	service := NewAuthService(users, auth.NewCodec([]byte("test-secret"), time.Hour))

	users.EXPECT().GetUserByUsername("ghost").
		Return(domain.User{}, errors.ErrUserNotFound)

	// Same error as a wrong password, no user enumeration.
	_, err := service.Login("ghost", "whatever")
	req.ErrorIs(err, errors.ErrLoginFail)
}
