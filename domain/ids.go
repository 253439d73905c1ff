package domain

import (
	"github.com/google/uuid"

	"itshere/errors"
)

// RoomID is an opaque room identifier. The only way to obtain one from
// the outside world is ParseRoomID, so malformed ids are rejected before
// they reach any business logic.
type RoomID uuid.UUID

func NewRoomID() RoomID {
	return RoomID(uuid.New())
}

func ParseRoomID(s string) (RoomID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RoomID{}, errors.ErrInvalidID
	}
	return RoomID(id), nil
}

func (id RoomID) String() string {
	return uuid.UUID(id).String()
}

func (id RoomID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id RoomID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *RoomID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return errors.ErrInvalidID
	}
	*id = RoomID(parsed)
	return nil
}

// MessageID is an opaque message identifier with the same validated
// construction path as RoomID.
type MessageID uuid.UUID

func NewMessageID() MessageID {
	return MessageID(uuid.New())
}

func ParseMessageID(s string) (MessageID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return MessageID{}, errors.ErrInvalidID
	}
	return MessageID(id), nil
}

func (id MessageID) String() string {
	return uuid.UUID(id).String()
}

func (id MessageID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *MessageID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return errors.ErrInvalidID
	}
	*id = MessageID(parsed)
	return nil
}
