package errors

import "fmt"

var (
	ErrLoginFail          = fmt.Errorf("invalid username or password")
	ErrUserWithMailExists = fmt.Errorf("a user with this email already exists")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrUsernameTaken      = fmt.Errorf("username already taken")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")

	ErrTokenCreation = fmt.Errorf("token creation failed")
	ErrInvalidToken  = fmt.Errorf("invalid or expired token")
	ErrUnauthorized  = fmt.Errorf("unauthorized access")

	ErrChatNotFound = fmt.Errorf("chat not found")
	ErrInvalidID    = fmt.Errorf("invalid id format")
	ErrPostNotFound = fmt.Errorf("post not found")

	ErrNotAnImage    = fmt.Errorf("upload is not an image")
	ErrImageTooLarge = fmt.Errorf("image exceeds the size limit")
	ErrImageNotFound = fmt.Errorf("image not found")
)
