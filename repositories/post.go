//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=../mocks/mock_post_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"itshere/domain"
	"itshere/errors"
)

type IPostRepository interface {
	CreatePost(post domain.Post) error
	GetPost(id uuid.UUID) (domain.Post, error)
	ListPosts() ([]domain.Post, error)
	ListPostsByUser(username string) ([]domain.Post, error)
	AddComment(postID uuid.UUID, comment domain.Comment) error
	SearchPosts(ctx context.Context, terms string) ([]domain.Post, error)
}

// PostRepository keeps post documents in BadgerDB and mirrors their
// searchable fields into a Bluge index.
type PostRepository struct {
	db          *badger.DB
	index       *bluge.Writer
	log         *slog.Logger
	searchLimit int
}

func NewPostRepository(db *badger.DB, index *bluge.Writer, log *slog.Logger, searchLimit int) PostRepository {
	return PostRepository{db: db, index: index, log: log, searchLimit: searchLimit}
}

// postTimeKey orders posts chronologically for listing, with the UUID
// as collision disconnector.
func postTimeKey(post domain.Post) []byte {
	return []byte(fmt.Sprintf("post:t:%019d:%s", post.CreatedAt.UnixNano(), post.ID))
}

// postIDKey points from a post id to its time-ordered key.
func postIDKey(id uuid.UUID) []byte {
	return []byte("post:id:" + id.String())
}

func (p PostRepository) CreatePost(post domain.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	key := postTimeKey(post)
	err = p.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(postIDKey(post.ID), key)
	})
	if err != nil {
		return fmt.Errorf("store post: %w", err)
	}

	doc := bluge.NewDocument(post.ID.String())
	doc.AddField(bluge.NewTextField("description", post.Description))
	doc.AddField(bluge.NewTextField("place", post.Place))
	doc.AddField(bluge.NewKeywordField("user", post.Username))
	if err := p.index.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index post: %w", err)
	}
	return nil
}

func (p PostRepository) GetPost(id uuid.UUID) (domain.Post, error) {
	var post domain.Post

	err := p.db.View(func(txn *badger.Txn) error {
		var err error
		post, err = readPost(txn, id)
		return err
	})
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (p PostRepository) ListPosts() ([]domain.Post, error) {
	return p.scan(func(domain.Post) bool { return true })
}

func (p PostRepository) ListPostsByUser(username string) ([]domain.Post, error) {
	return p.scan(func(post domain.Post) bool { return post.Username == username })
}

func (p PostRepository) scan(keep func(domain.Post) bool) ([]domain.Post, error) {
	var posts []domain.Post

	err := p.db.View(func(txn *badger.Txn) error {
		prefix := []byte("post:t:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var post domain.Post
				if err := json.Unmarshal(val, &post); err != nil {
					return err
				}
				if keep(post) {
					posts = append(posts, post)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return posts, nil
}

// AddComment appends a comment to the post document in one transaction.
func (p PostRepository) AddComment(postID uuid.UUID, comment domain.Comment) error {
	return p.db.Update(func(txn *badger.Txn) error {
		post, err := readPost(txn, postID)
		if err != nil {
			return err
		}
		post.Comments = append(post.Comments, comment)

		data, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("marshal post: %w", err)
		}
		return txn.Set(postTimeKey(post), data)
	})
}

// SearchPosts runs a match query over the description and place fields
// and resolves the hits back to full post documents.
func (p PostRepository) SearchPosts(ctx context.Context, terms string) ([]domain.Post, error) {
	reader, err := p.index.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(terms).SetField("description")).
		AddShould(bluge.NewMatchQuery(terms).SetField("place")).
		SetMinShould(1)

	request := bluge.NewTopNSearch(p.searchLimit, query)
	iter, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	var ids []uuid.UUID
	for match, err := iter.Next(); match != nil; match, err = iter.Next() {
		if err != nil {
			return nil, fmt.Errorf("search iteration: %w", err)
		}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				if id, parseErr := uuid.Parse(string(value)); parseErr == nil {
					ids = append(ids, id)
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
	}

	posts := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		post, err := p.GetPost(id)
		if stderrors.Is(err, errors.ErrPostNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func readPost(txn *badger.Txn, id uuid.UUID) (domain.Post, error) {
	var post domain.Post

	ref, err := txn.Get(postIDKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Post{}, errors.ErrPostNotFound
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("get post %s: %w", id, err)
	}

	var key []byte
	if err := ref.Value(func(val []byte) error {
		key = append([]byte(nil), val...)
		return nil
	}); err != nil {
		return domain.Post{}, err
	}

	item, err := txn.Get(key)
	if err != nil {
		return domain.Post{}, fmt.Errorf("get post %s: %w", id, err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &post)
	})
	return post, err
}
