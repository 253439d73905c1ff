package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"itshere/errors"
)

func TestNewRoom_CanonicalOrder(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()

	first := NewRoom("bob", "alice", now)
	second := NewRoom("alice", "bob", now)

	req.Equal("alice", first.ParticipantA)
	req.Equal("bob", first.ParticipantB)
	req.Equal(first.ParticipantA, second.ParticipantA)
	req.Equal(first.ParticipantB, second.ParticipantB)
}

func TestRoom_Membership(t *testing.T) {
	req := require.New(t)
	room := NewRoom("alice", "bob", time.Now().UTC())

	req.True(room.HasParticipant("alice"))
	req.True(room.HasParticipant("bob"))
	req.False(room.HasParticipant("charlie"))

	req.Equal("bob", room.Peer("alice"))
	req.Equal("alice", room.Peer("bob"))
}

func TestParseRoomID(t *testing.T) {
	req := require.New(t)

	id := NewRoomID()
	parsed, err := ParseRoomID(id.String())
	req.NoError(err)
	req.Equal(id, parsed)

	for _, garbage := range []string{"", "not-a-uuid", "1234"} {
		_, err := ParseRoomID(garbage)
		req.ErrorIs(err, errors.ErrInvalidID)
	}
}

func TestRoomID_TextRoundTrip(t *testing.T) {
	req := require.New(t)

	id := NewRoomID()
	text, err := id.MarshalText()
	req.NoError(err)

	var decoded RoomID
	req.NoError(decoded.UnmarshalText(text))
	req.Equal(id, decoded)
}
