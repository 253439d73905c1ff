package main

import (
	"encoding/json"
	"strings"

	"itshere/domain"
	"itshere/internal"
)

// ChatMapper renders chat keys in the Badger inspector: messages and
// rooms get a decoded detail column, everything else falls back to the
// default rendering.
func ChatMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, "msg:"):
		var message domain.Message
		if err := json.Unmarshal(val, &message); err != nil {
			return row
		}
		row.Type = "MESSAGE"
		row.Namespace = "chat"
		row.Detail = message.Sender + ": " + message.Body
	case strings.HasPrefix(key, "room:"):
		var room domain.Room
		if err := json.Unmarshal(val, &room); err != nil {
			return row
		}
		row.Type = "ROOM"
		row.Namespace = "chat"
		row.Detail = room.ParticipantA + " <-> " + room.ParticipantB
	case strings.HasPrefix(key, "user:name:"):
		var user domain.User
		if err := json.Unmarshal(val, &user); err != nil {
			return row
		}
		row.Type = "USER"
		row.Namespace = "account"
		row.Detail = user.Username + " (" + user.Gmail + ")"
	case strings.HasPrefix(key, "post:t:"):
		var post domain.Post
		if err := json.Unmarshal(val, &post); err != nil {
			return row
		}
		row.Type = "POST"
		row.Namespace = "report"
		row.Detail = post.Place + ": " + post.Description
	}
	return row
}
