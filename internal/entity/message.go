package entity

import (
	"time"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
)

// Message is one entry of a room's append-only log, keyed by (RoomID, Seq).
// Seq comes from a per-room atomic counter, so Seq order and append order are
// the same thing. Entries are never mutated after insert.
type Message struct {
	RoomID   string      `bson:"room_id"`
	Seq      int64       `bson:"seq"`
	SenderID string      `bson:"sender_id"`
	Type     MessageType `bson:"type"`
	// Content carries the text body for text messages and the image URL for
	// image messages.
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
}
