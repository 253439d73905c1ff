package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The password hash never leaves the
// service layer: responses expose Public() instead.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Gmail          string    `json:"gmail"`
	PhoneNumber    string    `json:"phone_number"`
	ProfilePicture string    `json:"profile_picture"`
	PasswordHash   string    `json:"password_hash"`
	CreatedAt      time.Time `json:"created_at"`
}

// PublicProfile is the shape of a user embedded in API responses.
type PublicProfile struct {
	Username       string `json:"username"`
	Gmail          string `json:"gmail"`
	PhoneNumber    string `json:"phone_number"`
	ProfilePicture string `json:"profile_picture"`
}

func (u User) Public() PublicProfile {
	return PublicProfile{
		Username:       u.Username,
		Gmail:          u.Gmail,
		PhoneNumber:    u.PhoneNumber,
		ProfilePicture: u.ProfilePicture,
	}
}
