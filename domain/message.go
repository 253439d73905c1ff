package domain

import "time"

// Message is an immutable chat event. Seq is assigned by the store and
// breaks ties between two messages recorded at the same nanosecond, so
// retrieval order is deterministic.
type Message struct {
	ID     MessageID `json:"id"`
	RoomID RoomID    `json:"room_id"`
	Sender string    `json:"sender"`
	Body   string    `json:"message"`
	SentAt time.Time `json:"sent_at"`
	Read   bool      `json:"is_read"`
	Seq    uint64    `json:"seq"`
}
