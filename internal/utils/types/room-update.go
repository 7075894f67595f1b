package types

import (
	"time"
)

// RoomUpdatePayload is the normalized room mutation event carried through the
// fanout queue and delivered to live sessions as a room_update frame.
type RoomUpdatePayload struct {
	RoomID        string              `json:"room_id"`
	Status        string              `json:"status"`
	UserA         string              `json:"user_a"`
	UserB         string              `json:"user_b"`
	StatusChanged bool                `json:"status_changed"`
	LastMessage   *LastMessageSummary `json:"last_message,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// LastMessageSummary is the log-tail summary; Content holds the text body for
// text messages, ImageURL the reference for image messages.
type LastMessageSummary struct {
	ID        int64     `json:"id"`
	SenderID  string    `json:"sender_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
