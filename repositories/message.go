//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"itshere/domain"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) (domain.Message, error)
	GetMessages(roomID domain.RoomID) ([]domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	seq           *badger.Sequence
	limitMessages *int
}

// NewMessageRepository reserves a Badger sequence used as a monotonic
// tie-break for messages recorded at the same nanosecond. Callers must
// Close the repository to release unused sequence numbers.
func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) (MessageRepository, error) {
	seq, err := db.GetSequence([]byte("seq:msg"), 128)
	if err != nil {
		return MessageRepository{}, fmt.Errorf("message sequence: %w", err)
	}
	return MessageRepository{db: db, log: log, seq: seq, limitMessages: limitMessages}, nil
}

func (m MessageRepository) Close() error {
	return m.seq.Release()
}

// StoreMessage persists a message and returns it with its assigned
// sequence number. The key is formatted as
// "msg:{room_id}:{timestamp_padded}:{seq_padded}" so that:
//  1. a forward prefix scan yields messages in send order (19-digit
//     zero padding keeps lexicographic and chronological order equal);
//  2. two messages landing on the same nanosecond are still totally
//     ordered by the store-assigned sequence.
func (m MessageRepository) StoreMessage(message domain.Message) (domain.Message, error) {
	seq, err := m.seq.Next()
	if err != nil {
		return domain.Message{}, fmt.Errorf("next message seq: %w", err)
	}
	message.Seq = seq

	key := fmt.Sprintf("msg:%s:%019d:%012d",
		message.RoomID,
		message.SentAt.UnixNano(),
		message.Seq,
	)
	data, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal message: %w", err)
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	return message, nil
}

// GetMessages retrieves the room's messages using a prefix scan. Thanks
// to the padded timestamp in the key, messages come back sorted by send
// time ascending. When a limit is configured, collection stops once it
// is reached.
func (m MessageRepository) GetMessages(roomID domain.RoomID) ([]domain.Message, error) {
	var messages []domain.Message

	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", roomID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("maximum of %d messages reached", *m.limitMessages))
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var message domain.Message
				if err := json.Unmarshal(val, &message); err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get messages for room %s: %w", roomID, err)
	}
	return messages, nil
}
