package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a missing-person report. Comments are embedded in the post
// document, as they have no life of their own.
type Post struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Place       string    `json:"place"`
	ImageLink   string    `json:"image_link"`
	Username    string    `json:"user"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is a post joined with its author's public profile.
type PostView struct {
	ID          uuid.UUID     `json:"id"`
	Description string        `json:"description"`
	Date        string        `json:"date"`
	Place       string        `json:"place"`
	ImageLink   string        `json:"image_link"`
	User        PublicProfile `json:"user"`
	Comments    []Comment     `json:"comments"`
}

func (p Post) WithAuthor(author PublicProfile) PostView {
	return PostView{
		ID:          p.ID,
		Description: p.Description,
		Date:        p.Date,
		Place:       p.Place,
		ImageLink:   p.ImageLink,
		User:        author,
		Comments:    p.Comments,
	}
}
