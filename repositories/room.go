//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"itshere/domain"
	"itshere/errors"
)

type IRoomRepository interface {
	CreateOrGet(candidate domain.Room) (domain.Room, error)
	GetByID(id domain.RoomID) (domain.Room, error)
	ListByUser(username string) ([]domain.Room, error)
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

// pairKey is the dedup key for a room: the canonical (sorted) pair of
// participants. One key per unordered pair.
func pairKey(userA, userB string) []byte {
	a, b := domain.CanonicalPair(userA, userB)
	return []byte("room:pair:" + a + ":" + b)
}

func roomIDKey(id domain.RoomID) []byte {
	return []byte("room:id:" + id.String())
}

func roomUserKey(username string, id domain.RoomID) []byte {
	return []byte("room:user:" + username + ":" + id.String())
}

// CreateOrGet returns the room for the candidate's participant pair,
// inserting the candidate if no room exists yet. The read and the
// conditional insert run in one Badger transaction keyed on the
// canonical pair, so two callers racing on the same pair cannot both
// insert: the loser's transaction aborts with a conflict and the retry
// observes the winner's room.
func (r RoomRepository) CreateOrGet(candidate domain.Room) (domain.Room, error) {
	key := pairKey(candidate.ParticipantA, candidate.ParticipantB)

	for {
		var result domain.Room
		err := r.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(key)
			switch {
			case err == nil:
				return item.Value(func(val []byte) error {
					return json.Unmarshal(val, &result)
				})
			case !stderrors.Is(err, badger.ErrKeyNotFound):
				return err
			}

			data, err := json.Marshal(candidate)
			if err != nil {
				return fmt.Errorf("marshal room: %w", err)
			}
			if err := txn.Set(key, data); err != nil {
				return err
			}
			if err := txn.Set(roomIDKey(candidate.ID), data); err != nil {
				return err
			}
			for _, participant := range []string{candidate.ParticipantA, candidate.ParticipantB} {
				if err := txn.Set(roomUserKey(participant, candidate.ID), []byte(candidate.ID.String())); err != nil {
					return err
				}
			}
			result = candidate
			return nil
		})
		if stderrors.Is(err, badger.ErrConflict) {
			r.log.Debug("room insert lost a race, retrying", "pair", string(key))
			continue
		}
		if err != nil {
			return domain.Room{}, fmt.Errorf("room upsert: %w", err)
		}
		return result, nil
	}
}

func (r RoomRepository) GetByID(id domain.RoomID) (domain.Room, error) {
	var room domain.Room

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomIDKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &room)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, errors.ErrChatNotFound
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("get room %s: %w", id, err)
	}
	return room, nil
}

// ListByUser returns every room the user participates in, oldest first.
func (r RoomRepository) ListByUser(username string) ([]domain.Room, error) {
	var ids []domain.RoomID

	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("room:user:" + username + ":")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				id, err := domain.ParseRoomID(string(val))
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list rooms for %q: %w", username, err)
	}

	rooms := make([]domain.Room, 0, len(ids))
	for _, id := range ids {
		room, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms, nil
}
