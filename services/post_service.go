package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"itshere/domain"
	"itshere/repositories"
)

type NewPost struct {
	Description string `json:"description"`
	Date        string `json:"date"`
	Place       string `json:"place"`
	ImageLink   string `json:"image_link"`
}

type IPostService interface {
	AddPost(ctx context.Context, caller string, req NewPost) (domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.PostView, error)
	ListPostsByUser(ctx context.Context, username string) ([]domain.PostView, error)
	SearchPosts(ctx context.Context, terms string) ([]domain.PostView, error)
	AddComment(ctx context.Context, caller string, postID uuid.UUID, message string) (domain.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
}

type PostService struct {
	posts repositories.IPostRepository
	users repositories.IUserRepository
	now   func() time.Time
}

func NewPostService(posts repositories.IPostRepository, users repositories.IUserRepository) *PostService {
	return &PostService{
		posts: posts,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) AddPost(ctx context.Context, caller string, req NewPost) (domain.Post, error) {
	if _, err := s.users.GetUserByUsername(caller); err != nil {
		return domain.Post{}, err
	}

	post := domain.Post{
		ID:          uuid.New(),
		Description: req.Description,
		Date:        req.Date,
		Place:       req.Place,
		ImageLink:   req.ImageLink,
		Username:    caller,
		Comments:    []domain.Comment{},
		CreatedAt:   s.now(),
	}
	if err := s.posts.CreatePost(post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]domain.PostView, error) {
	posts, err := s.posts.ListPosts()
	if err != nil {
		return nil, err
	}
	return s.withAuthors(posts)
}

func (s *PostService) ListPostsByUser(ctx context.Context, username string) ([]domain.PostView, error) {
	if _, err := s.users.GetUserByUsername(username); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListPostsByUser(username)
	if err != nil {
		return nil, err
	}
	return s.withAuthors(posts)
}

func (s *PostService) SearchPosts(ctx context.Context, terms string) ([]domain.PostView, error) {
	posts, err := s.posts.SearchPosts(ctx, terms)
	if err != nil {
		return nil, err
	}
	return s.withAuthors(posts)
}

func (s *PostService) AddComment(ctx context.Context, caller string, postID uuid.UUID, message string) (domain.Comment, error) {
	if _, err := s.users.GetUserByUsername(caller); err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:        uuid.New(),
		Author:    caller,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.posts.AddComment(postID, comment); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	post, err := s.posts.GetPost(postID)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// withAuthors joins posts with their authors' public profiles. Profiles
// are cached per call: a page of posts usually repeats few authors.
func (s *PostService) withAuthors(posts []domain.Post) ([]domain.PostView, error) {
	profiles := make(map[string]domain.PublicProfile)
	views := make([]domain.PostView, 0, len(posts))

	for _, post := range posts {
		profile, ok := profiles[post.Username]
		if !ok {
			user, err := s.users.GetUserByUsername(post.Username)
			if err != nil {
				return nil, err
			}
			profile = user.Public()
			profiles[post.Username] = profile
		}
		views = append(views, post.WithAuthor(profile))
	}
	return views, nil
}
