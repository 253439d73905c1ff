// Package domain contains core concepts of the reporting system.
// No transport, storage or UI logic should be added here.
package domain

import (
	"strings"
	"time"
)

// Room is a two-party conversation. For any unordered pair of usernames
// there is at most one room: participants are stored in lexicographic
// order so that room(a,b) and room(b,a) are the same room.
type Room struct {
	ID           RoomID    `json:"id"`
	ParticipantA string    `json:"participant_a"`
	ParticipantB string    `json:"participant_b"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewRoom(userA, userB string, createdAt time.Time) Room {
	a, b := CanonicalPair(userA, userB)
	return Room{
		ID:           NewRoomID(),
		ParticipantA: a,
		ParticipantB: b,
		CreatedAt:    createdAt,
	}
}

func (r Room) HasParticipant(username string) bool {
	return r.ParticipantA == username || r.ParticipantB == username
}

// Peer returns the other participant of the room.
func (r Room) Peer(username string) string {
	if r.ParticipantA == username {
		return r.ParticipantB
	}
	return r.ParticipantA
}

// CanonicalPair orders two usernames lexicographically. The pair in this
// order is the dedup key for room lookup and creation.
func CanonicalPair(userA, userB string) (string, string) {
	if strings.Compare(userA, userB) > 0 {
		return userB, userA
	}
	return userA, userB
}
