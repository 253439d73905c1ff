//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"itshere/domain"
	"itshere/errors"
)

type IUserRepository interface {
	CreateUser(user domain.User) error
	GetUserByUsername(username string) (domain.User, error)
	UpdateEmail(username, gmail string) error
	UpdatePhoneNumber(username, phone string) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

func userKey(username string) []byte {
	return []byte("user:name:" + username)
}

// mailKey guards email uniqueness. It maps a gmail address to the
// username that owns it.
func mailKey(gmail string) []byte {
	return []byte("user:mail:" + gmail)
}

// CreateUser persists a new user. Both the username and the email
// address must be unused.
func (u UserRepository) CreateUser(user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	for {
		err := u.db.Update(func(txn *badger.Txn) error {
			if _, err := txn.Get(userKey(user.Username)); err == nil {
				return errors.ErrUsernameTaken
			}
			if _, err := txn.Get(mailKey(user.Gmail)); err == nil {
				return errors.ErrUserWithMailExists
			}
			if err := txn.Set(userKey(user.Username), data); err != nil {
				return err
			}
			return txn.Set(mailKey(user.Gmail), []byte(user.Username))
		})
		// Two racing registrations can both pass the guard reads; the
		// loser's commit aborts and the retry sees the winner's keys.
		if stderrors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}

func (u UserRepository) GetUserByUsername(username string) (domain.User, error) {
	var user domain.User

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return user, nil
}

// UpdateEmail swaps the user's gmail address, keeping the uniqueness
// guard consistent in the same transaction. Setting the address the
// caller already owns is a no-op, not a conflict.
func (u UserRepository) UpdateEmail(username, gmail string) error {
	return u.db.Update(func(txn *badger.Txn) error {
		if item, err := txn.Get(mailKey(gmail)); err == nil {
			var owner string
			if err := item.Value(func(val []byte) error {
				owner = string(val)
				return nil
			}); err != nil {
				return err
			}
			if owner != username {
				return errors.ErrUserWithMailExists
			}
			return nil
		}

		user, err := readUser(txn, username)
		if err != nil {
			return err
		}

		if err := txn.Delete(mailKey(user.Gmail)); err != nil {
			return err
		}
		user.Gmail = gmail

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		if err := txn.Set(userKey(username), data); err != nil {
			return err
		}
		return txn.Set(mailKey(gmail), []byte(username))
	})
}

func (u UserRepository) UpdatePhoneNumber(username, phone string) error {
	return u.db.Update(func(txn *badger.Txn) error {
		user, err := readUser(txn, username)
		if err != nil {
			return err
		}
		user.PhoneNumber = phone

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		return txn.Set(userKey(username), data)
	})
}

func readUser(txn *badger.Txn, username string) (domain.User, error) {
	var user domain.User

	item, err := txn.Get(userKey(username))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &user)
	})
	return user, err
}
