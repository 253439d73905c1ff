package auth

import (
	"unicode"

	"github.com/go-playground/validator/v10"

	"itshere/errors"
)

var validate = validator.New()

// Usernames appear in URLs and as segments of composite store keys, so
// they are restricted to letters and digits.
type RegisterRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Gmail          string `json:"gmail" validate:"required,email"`
	PhoneNumber    string `json:"phone_number" validate:"omitempty,min=6,max=20"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty,url"`
	Password       string `json:"password" validate:"required,min=12,max=72"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}

	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
