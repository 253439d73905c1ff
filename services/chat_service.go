package services

import (
	"context"
	"log/slog"
	"time"

	"itshere/domain"
	"itshere/errors"
	"itshere/moderation"
	"itshere/repositories"
)

type IChatService interface {
	CreateOrGetRoom(ctx context.Context, caller, other string) (domain.Room, error)
	SendMessage(ctx context.Context, caller string, roomID domain.RoomID, body string) (domain.Message, error)
	GetMessages(ctx context.Context, caller string, roomID domain.RoomID) ([]domain.Message, error)
	ListRoomsForUser(ctx context.Context, username string) ([]domain.Room, error)
}

// ChatService owns the lifecycle of rooms and messages. It is stateless:
// all durable state lives behind the repositories, which are safe for
// concurrent use.
type ChatService struct {
	users    repositories.IUserRepository
	rooms    repositories.IRoomRepository
	messages repositories.IMessageRepository
	censor   *moderation.Censor
	log      *slog.Logger
	now      func() time.Time
}

func NewChatService(
	users repositories.IUserRepository,
	rooms repositories.IRoomRepository,
	messages repositories.IMessageRepository,
	censor *moderation.Censor,
	log *slog.Logger,
) *ChatService {
	return &ChatService{
		users:    users,
		rooms:    rooms,
		messages: messages,
		censor:   censor,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrGetRoom returns the unique room for the unordered pair of
// users, creating it on first contact. Both users must exist. Calling
// it again, in either argument order, yields the same room.
func (s *ChatService) CreateOrGetRoom(ctx context.Context, caller, other string) (domain.Room, error) {
	if _, err := s.users.GetUserByUsername(caller); err != nil {
		return domain.Room{}, err
	}
	if _, err := s.users.GetUserByUsername(other); err != nil {
		return domain.Room{}, err
	}

	room, err := s.rooms.CreateOrGet(domain.NewRoom(caller, other, s.now()))
	if err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

// SendMessage appends a message to an existing room. The caller must be
// one of the room's two participants; the room is never created as a
// side effect of sending. The body passes through the moderation censor
// before it is persisted.
func (s *ChatService) SendMessage(ctx context.Context, caller string, roomID domain.RoomID, body string) (domain.Message, error) {
	room, err := s.rooms.GetByID(roomID)
	if err != nil {
		return domain.Message{}, err
	}
	if !room.HasParticipant(caller) {
		return domain.Message{}, errors.ErrUnauthorized
	}

	message := domain.Message{
		ID:     domain.NewMessageID(),
		RoomID: room.ID,
		Sender: caller,
		Body:   s.censor.Apply(body),
		SentAt: s.now(),
		Read:   false,
	}

	stored, err := s.messages.StoreMessage(message)
	if err != nil {
		return domain.Message{}, err
	}
	s.log.Debug("message stored", "room", room.ID.String(), "sender", caller)
	return stored, nil
}

// GetMessages returns the room's messages sorted ascending by send
// time, ties broken by the store-assigned sequence. Reading requires
// the same membership as sending.
func (s *ChatService) GetMessages(ctx context.Context, caller string, roomID domain.RoomID) ([]domain.Message, error) {
	room, err := s.rooms.GetByID(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(caller) {
		return nil, errors.ErrUnauthorized
	}
	return s.messages.GetMessages(room.ID)
}

// ListRoomsForUser returns every room where the user is a participant,
// ordered by creation time.
func (s *ChatService) ListRoomsForUser(ctx context.Context, username string) ([]domain.Room, error) {
	if _, err := s.users.GetUserByUsername(username); err != nil {
		return nil, err
	}
	return s.rooms.ListByUser(username)
}
